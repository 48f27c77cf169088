package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PlacementHandler struct {
	*BaseHandler
	placementService services.PlacementService
}

func NewPlacementHandler(base *BaseHandler, placementService services.PlacementService) *PlacementHandler {
	return &PlacementHandler{
		BaseHandler:      base,
		placementService: placementService,
	}
}

func (h *PlacementHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	placement := r.Group("/placement")
	placement.Use(g.Auth, middleware.RequireRoles(models.UserRoleCollege))
	{
		placement.POST("/confirm", h.Confirm)
		placement.GET("", h.List)
		placement.GET("/export", h.Export)
	}
}

func (h *PlacementHandler) Confirm(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmPlacementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	record, err := h.placementService.Confirm(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *PlacementHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.placementService.List(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *PlacementHandler) Export(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	table, err := h.placementService.Export(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.WriteExport(c, table, "placements")
}
