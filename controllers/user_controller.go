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
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
	"github.com/agroconnect/agroconnect_backend/repositories"
	"github.com/agroconnect/agroconnect_backend/utils"
)

// UserController handles user management endpoints
type UserController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, userRepo *repositories.UserRepository) *UserController {
	return &UserController{DB: db, userRepo: userRepo}
}

// GetAllUsers lists every user. Admin only (enforced by route middleware).
func (uc *UserController) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(uc.DB, "users").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding users",
		})
	}
	for i := range users {
		users[i].Sanitize()
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users fetched successfully",
		Data:    users,
	})
}

// GetUser returns a single user. Callers may fetch themselves; admins may
// fetch anyone.
func (uc *UserController) GetUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	callerID, _ := middleware.ExtractUserID(c)
	if middleware.ExtractRole(c) != models.RoleAdmin && callerID != id.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "User not found",
		})
	}

	user.Sanitize()
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User fetched successfully",
		Data:    user,
	})
}

// UpdateUser applies a partial update to a user. Self-service updates cannot
// change role or active flag; those fields are dropped from the patch rather
// than rejected.
func (uc *UserController) UpdateUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	callerID, _ := middleware.ExtractUserID(c)
	callerRole := middleware.ExtractRole(c)
	isAdmin := callerRole == models.RoleAdmin
	if !isAdmin && callerID != id.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized",
		})
	}

	var body models.UpdateUserBody
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
	if body.Phone != nil {
		set["phone"] = *body.Phone
	}
	if body.Address != nil {
		set["address"] = body.Address
	}
	if body.FarmerInfo != nil {
		set["farmerInfo"] = body.FarmerInfo
	}
	if body.ProviderInfo != nil {
		if !models.ValidCapability(body.ProviderInfo.ServiceType) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid service type",
			})
		}
		set["providerInfo"] = body.ProviderInfo
	}
	if body.Password != nil && *body.Password != "" {
		hashed, err := utils.HashPassword(*body.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error hashing password",
			})
		}
		set["password"] = hashed
	}
	if isAdmin {
		if body.Role != nil {
			if !models.ValidRole(*body.Role) {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid role",
				})
			}
			set["role"] = *body.Role
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := config.GetCollection(uc.DB, "users").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating user",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching updated user",
		})
	}
	user.Sanitize()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated successfully",
		Data:    user,
	})
}

// DeleteUser removes a user. Admin only (enforced by route middleware).
func (uc *UserController) DeleteUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := config.GetCollection(uc.DB, "users").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error deleting user",
		})
	}
	if res.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}
