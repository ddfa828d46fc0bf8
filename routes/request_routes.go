package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
)

// RegisterRequestRoutes sets up the service-request lifecycle endpoints.
func RegisterRequestRoutes(e *echo.Echo, requestController *controllers.RequestController) {
	r := e.Group("/api/requests")
	r.Use(middleware.JWTMiddleware())

	r.POST("", requestController.CreateRequest, middleware.RequireRole(models.RoleFarmer))
	r.GET("", requestController.GetRequests)
	r.GET("/available", requestController.GetAvailableRequests, middleware.RequireRole(models.RoleProvider))
	r.POST("/:id/accept", requestController.AcceptRequest, middleware.RequireRole(models.RoleProvider))
	r.PUT("/:id/status", requestController.UpdateRequestStatus, middleware.RequireRole(models.RoleProvider))
	r.GET("/:id", requestController.GetRequest)
	r.PUT("/:id", requestController.UpdateRequest)
	r.DELETE("/:id", requestController.DeleteRequest)
}
