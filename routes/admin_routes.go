package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
)

// RegisterAdminRoutes sets up the admin dashboard endpoints.
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.GET("/stats", adminController.GetStats)
}
