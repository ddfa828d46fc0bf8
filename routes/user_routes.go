package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
)

// RegisterUserRoutes sets up user management. Listing and deletion are admin
// only; fetch/update enforce self-or-admin inside the controller.
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController) {
	r := e.Group("/api/users")
	r.Use(middleware.JWTMiddleware())

	r.GET("", userController.GetAllUsers, middleware.RequireRole(models.RoleAdmin))
	r.GET("/:id", userController.GetUser)
	r.PUT("/:id", userController.UpdateUser)
	r.DELETE("/:id", userController.DeleteUser, middleware.RequireRole(models.RoleAdmin))
}
