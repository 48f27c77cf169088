package handlers

import (
	"net/http"

	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты /auth. Публичные ручки под rate limit.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", g.AuthLimit, h.SignupStudent)
		auth.POST("/signup/company", g.AuthLimit, h.SignupCompany)
		auth.POST("/signup/college", g.AuthLimit, h.SignupCollege)
		auth.POST("/login", g.AuthLimit, h.Login)
		auth.POST("/refresh", g.AuthLimit, h.RefreshToken)

		auth.POST("/logout", g.Auth, h.Logout)
		auth.GET("/me", g.Auth, h.Me)
	}
}

func (h *AuthHandler) SignupStudent(c *gin.Context) {
	var req dto.StudentSignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignupStudent(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) SignupCompany(c *gin.Context) {
	var req dto.CompanySignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignupCompany(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) SignupCollege(c *gin.Context) {
	var req dto.CollegeSignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignupCollege(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Refresh(db, req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.authService.Me(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
