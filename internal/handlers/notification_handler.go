package handlers

import (
	"net/http"

	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

// RegisterRoutes - любая роль
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	notifications := r.Group("/notifications")
	notifications.Use(g.Auth)
	{
		notifications.GET("", h.List)
		notifications.POST("/mark-all-seen", h.MarkAllSeen)
		notifications.PUT("/:id/seen", h.MarkSeen)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.notificationService.List(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkSeen(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification marked as seen"})
}

func (h *NotificationHandler) MarkAllSeen(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.notificationService.MarkAllSeen(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
