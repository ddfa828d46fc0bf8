package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
)

// RegisterServiceRoutes sets up the service catalog. Reads are public;
// mutations are admin only.
func RegisterServiceRoutes(e *echo.Echo, serviceController *controllers.ServiceController) {
	e.GET("/api/services", serviceController.GetServices)
	e.GET("/api/services/:id", serviceController.GetService)

	admin := e.Group("/api/services")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("", serviceController.CreateService)
	admin.PUT("/:id", serviceController.UpdateService)
	admin.DELETE("/:id", serviceController.DeleteService)
}
