package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	*BaseHandler
	studentService services.StudentService
	uploadService  services.UploadService
}

func NewStudentHandler(base *BaseHandler, studentService services.StudentService, uploadService services.UploadService) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    base,
		studentService: studentService,
		uploadService:  uploadService,
	}
}

func (h *StudentHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	students := r.Group("/students")
	students.Use(g.Auth, middleware.RequireRoles(models.UserRoleStudent))
	{
		students.GET("/profile", h.GetProfile)
		students.PUT("/profile", h.UpdateProfile)
		students.PUT("/resume", h.UpdateResume)
		students.POST("/resume/upload", h.UploadResume)
	}
}

func (h *StudentHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	student, err := h.studentService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) UpdateResume(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateResumeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	student, err := h.studentService.UpdateResume(h.GetDB(c), userID, req.ResumeLink)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResumeResponse{ResumeLink: student.ResumeLink})
}

// UploadResume - multipart поле "resume"
func (h *StudentHandler) UploadResume(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("resume")
	if err != nil {
		apperrors.HandleError(c, apperrors.FieldError("resume", "File is required"))
		return
	}

	response, err := h.uploadService.UploadResume(c.Request.Context(), h.GetDB(c), userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
