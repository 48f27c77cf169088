package routes

import (
	"hireflow_backend/internal/handlers"
	"hireflow_backend/internal/logger"
	"hireflow_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
	guards handlers.Guards,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, guards)
		appHandlers.StudentHandler.RegisterRoutes(api, guards)
		appHandlers.DriveHandler.RegisterRoutes(api, guards)
		appHandlers.ApplicationHandler.RegisterRoutes(api, guards)
		appHandlers.OfferHandler.RegisterRoutes(api, guards)
		appHandlers.CollegeHandler.RegisterRoutes(api, guards)
		appHandlers.PlacementHandler.RegisterRoutes(api, guards)
		appHandlers.CompanyHandler.RegisterRoutes(api, guards)
		appHandlers.NotificationHandler.RegisterRoutes(api, guards)
	}

	// Регистрация WebSocket
	wsHandler.RegisterRoutes(&ginRouter.RouterGroup, guards.Auth)
	logger.Info("WebSocket route /ws registered")
}
