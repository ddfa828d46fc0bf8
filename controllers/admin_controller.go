package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agroconnect/agroconnect_backend/config"
	"github.com/agroconnect/agroconnect_backend/models"
)

// AdminController serves the admin dashboard endpoints.
type AdminController struct {
	DB *mongo.Client
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{DB: db}
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalFarmers      int64 `json:"totalFarmers"`
	TotalProviders    int64 `json:"totalProviders"`
	TotalRequests     int64 `json:"totalRequests"`
	PendingRequests   int64 `json:"pendingRequests"`
	CompletedRequests int64 `json:"completedRequests"`
}

// GetStats returns marketplace counters for the admin dashboard.
func (ac *AdminController) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users := config.GetCollection(ac.DB, "users")
	requests := config.GetCollection(ac.DB, "requests")

	stats := DashboardStats{}
	counts := []struct {
		coll   *mongo.Collection
		filter bson.M
		dest   *int64
	}{
		{users, bson.M{}, &stats.TotalUsers},
		{users, bson.M{"role": models.RoleFarmer}, &stats.TotalFarmers},
		{users, bson.M{"role": models.RoleProvider}, &stats.TotalProviders},
		{requests, bson.M{}, &stats.TotalRequests},
		{requests, bson.M{"status": models.StatusPending}, &stats.PendingRequests},
		{requests, bson.M{"status": models.StatusCompleted}, &stats.CompletedRequests},
	}

	for _, count := range counts {
		n, err := count.coll.CountDocuments(ctx, count.filter)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error fetching stats",
			})
		}
		*count.dest = n
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Stats fetched successfully",
		Data:    stats,
	})
}
