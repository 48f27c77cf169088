package handlers

import "github.com/gin-gonic/gin"

// Guards - middleware, которые хэндлеры навешивают на свои группы
type Guards struct {
	Auth      gin.HandlerFunc
	AuthLimit gin.HandlerFunc
}

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	StudentHandler      *StudentHandler
	DriveHandler        *DriveHandler
	ApplicationHandler  *ApplicationHandler
	OfferHandler        *OfferHandler
	CollegeHandler      *CollegeHandler
	PlacementHandler    *PlacementHandler
	CompanyHandler      *CompanyHandler
	NotificationHandler *NotificationHandler
	HealthHandler       *HealthHandler
}
