package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
	"github.com/agroconnect/agroconnect_backend/websocket"
)

// SetupRoutes configures all API routes by calling the individual route
// registration functions.
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	serviceController *controllers.ServiceController,
	requestController *controllers.RequestController,
	adminController *controllers.AdminController) {

	RegisterAuthRoutes(e, authController)
	RegisterUserRoutes(e, userController)
	RegisterServiceRoutes(e, serviceController)
	RegisterRequestRoutes(e, requestController)
	RegisterAdminRoutes(e, adminController)

	// WebSocket subscription for lifecycle notifications
	ws := e.Group("/api")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("/ws", func(c echo.Context) error {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		return websocket.HandleWebSocket(c, hub, objID)
	})
}
