package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
)

// RegisterAuthRoutes sets up signup/login/logout.
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)

	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
}
