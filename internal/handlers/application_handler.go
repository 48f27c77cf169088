package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	applications := r.Group("/applications")
	applications.Use(g.Auth, middleware.RequireRoles(models.UserRoleStudent))
	{
		applications.POST("/submit", h.Submit)
		applications.GET("/my-applications", h.ListMine)
		applications.GET("/:id", h.GetApplication)
	}
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Submit(h.GetDB(c), userID, req.DriveID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.applicationService.ListMine(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetApplication - с timeline и оффером
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetMine(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}
