package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// DriveHandler - drives глазами студента
type DriveHandler struct {
	*BaseHandler
	driveService services.DriveService
}

func NewDriveHandler(base *BaseHandler, driveService services.DriveService) *DriveHandler {
	return &DriveHandler{
		BaseHandler:  base,
		driveService: driveService,
	}
}

func (h *DriveHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	drives := r.Group("/drives")
	drives.Use(g.Auth, middleware.RequireRoles(models.UserRoleStudent))
	{
		drives.GET("/eligible", h.ListEligible)
		drives.GET("/:id", h.GetDrive)
	}
}

func (h *DriveHandler) ListEligible(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.driveService.ListEligible(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DriveHandler) GetDrive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	drive, err := h.driveService.GetForStudent(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, drive)
}
