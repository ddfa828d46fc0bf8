package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/agroconnect/agroconnect_backend/config"
	"github.com/agroconnect/agroconnect_backend/controllers"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/repositories"
	"github.com/agroconnect/agroconnect_backend/routes"
	"github.com/agroconnect/agroconnect_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (token revocation; optional)
	config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub for lifecycle notifications
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(middleware.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "AgroConnect backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		database := "connected"
		if err := client.Ping(ctx, nil); err != nil {
			database = "disconnected"
		}
		return c.JSON(200, map[string]string{
			"status":    "healthy",
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(client)

	// Initialize controllers
	authController := controllers.NewAuthController(client)
	userController := controllers.NewUserController(client, userRepo)
	serviceController := controllers.NewServiceController(client)
	requestController := controllers.NewRequestController(client, wsHub)
	adminController := controllers.NewAdminController(client)

	// Register routes
	routes.SetupRoutes(e, client, wsHub, authController, userController,
		serviceController, requestController, adminController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
