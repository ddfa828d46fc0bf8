package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agroconnect/agroconnect_backend/config"
	"github.com/agroconnect/agroconnect_backend/models"
)

// ServiceController handles catalog management. Create/update/delete are
// admin-only (enforced by route middleware); listings are public.
type ServiceController struct {
	DB *mongo.Client
}

// NewServiceController creates a new service controller
func NewServiceController(db *mongo.Client) *ServiceController {
	return &ServiceController{DB: db}
}

// CreateService adds a catalog entry.
func (sc *ServiceController) CreateService(c echo.Context) error {
	var body models.ServiceRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, type, and basePrice are required",
		})
	}

	priceUnit := body.PriceUnit
	if priceUnit == "" {
		priceUnit = models.PriceUnitAcre
	}

	now := time.Now()
	service := models.Service{
		Name:         body.Name,
		Description:  body.Description,
		Type:         body.Type,
		BasePrice:    body.BasePrice,
		PriceUnit:    priceUnit,
		Duration:     body.Duration,
		Requirements: body.Requirements,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := config.GetCollection(sc.DB, "services").InsertOne(ctx, service)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating service",
		})
	}
	service.ID = res.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service created successfully",
		Data:    service,
	})
}

// GetServices lists active catalog entries. Soft-disabled services are hidden
// here but stay reachable by id.
func (sc *ServiceController) GetServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(sc.DB, "services").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching services",
		})
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding services",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Services fetched successfully",
		Data:    services,
	})
}

// GetService returns a catalog entry by id regardless of its active flag.
func (sc *ServiceController) GetService(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var service models.Service
	err = config.GetCollection(sc.DB, "services").FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching service",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service fetched successfully",
		Data:    service,
	})
}

// UpdateService edits a catalog entry. Requests created before the edit keep
// their original serviceType and estimatedCost.
func (sc *ServiceController) UpdateService(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	var body struct {
		Name         *string  `json:"name,omitempty"`
		Description  *string  `json:"description,omitempty"`
		Type         *string  `json:"type,omitempty"`
		BasePrice    *float64 `json:"basePrice,omitempty"`
		PriceUnit    *string  `json:"priceUnit,omitempty"`
		Duration     *string  `json:"duration,omitempty"`
		Requirements []string `json:"requirements,omitempty"`
		IsActive     *bool    `json:"isActive,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Description != nil {
		set["description"] = *body.Description
	}
	if body.Type != nil {
		if !models.ValidServiceType(*body.Type) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid service type",
			})
		}
		set["type"] = *body.Type
	}
	if body.BasePrice != nil {
		if *body.BasePrice <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "basePrice must be positive",
			})
		}
		set["basePrice"] = *body.BasePrice
	}
	if body.PriceUnit != nil {
		set["priceUnit"] = *body.PriceUnit
	}
	if body.Duration != nil {
		set["duration"] = *body.Duration
	}
	if body.Requirements != nil {
		set["requirements"] = body.Requirements
	}
	if body.IsActive != nil {
		set["isActive"] = *body.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(sc.DB, "services")
	res, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating service",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service not found",
		})
	}

	var service models.Service
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&service); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching updated service",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service updated successfully",
		Data:    service,
	})
}

// DeleteService removes a catalog entry outright. Disabling via isActive is
// the softer option for services with existing requests.
func (sc *ServiceController) DeleteService(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := config.GetCollection(sc.DB, "services").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error deleting service",
		})
	}
	if res.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service deleted successfully",
	})
}
