package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	*BaseHandler
	offerService services.OfferService
}

func NewOfferHandler(base *BaseHandler, offerService services.OfferService) *OfferHandler {
	return &OfferHandler{
		BaseHandler:  base,
		offerService: offerService,
	}
}

func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	offers := r.Group("/offers")
	offers.Use(g.Auth, middleware.RequireRoles(models.UserRoleStudent))
	{
		offers.GET("/my", h.ListMine)
		offers.POST("/:id/acknowledge", h.Acknowledge)
	}
}

func (h *OfferHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.offerService.ListMine(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *OfferHandler) Acknowledge(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AcknowledgeOfferRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	offer, err := h.offerService.Acknowledge(h.GetDB(c), userID, c.Param("id"), *req.Accept)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}
