package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CollegeHandler struct {
	*BaseHandler
	collegeService services.CollegeService
}

func NewCollegeHandler(base *BaseHandler, collegeService services.CollegeService) *CollegeHandler {
	return &CollegeHandler{
		BaseHandler:    base,
		collegeService: collegeService,
	}
}

func (h *CollegeHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	college := r.Group("/college")
	college.Use(g.Auth, middleware.RequireRoles(models.UserRoleCollege))
	{
		college.GET("/dashboard", h.Dashboard)

		college.GET("/students", h.ListStudents)
		college.GET("/students/export", h.ExportStudents)
		college.PUT("/students/:id/verify", h.VerifyStudent)
		college.PUT("/students/:id", h.UpdateStudent)

		college.GET("/drives", h.ListDrives)
		// :id - id приглашения (DriveCollege)
		college.POST("/drives/:id/respond", h.Respond)
		// :id - id drive
		college.POST("/drives/:id/push-eligible", h.PushEligible)
	}
}

func (h *CollegeHandler) Dashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.collegeService.Dashboard(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *CollegeHandler) ListStudents(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var filter dto.StudentListQuery
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.collegeService.ListStudents(h.GetDB(c), userID, filter, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// VerifyStudent - тело необязательно, по умолчанию verified=true
func (h *CollegeHandler) VerifyStudent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyStudentRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	student, err := h.collegeService.VerifyStudent(h.GetDB(c), userID, c.Param("id"), verified)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *CollegeHandler) UpdateStudent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CollegeUpdateStudentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	student, err := h.collegeService.UpdateStudent(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *CollegeHandler) ExportStudents(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	table, err := h.collegeService.ExportStudents(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.WriteExport(c, table, "students")
}

func (h *CollegeHandler) ListDrives(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.collegeService.ListDrives(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CollegeHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondInvitationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invitation, err := h.collegeService.Respond(h.GetDB(c), userID, c.Param("id"), req.Action)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation)
}

func (h *CollegeHandler) PushEligible(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.collegeService.PushEligible(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
