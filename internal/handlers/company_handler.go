package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CompanyHandler struct {
	*BaseHandler
	companyService     services.CompanyService
	recruitmentService services.RecruitmentService
	uploadService      services.UploadService
}

func NewCompanyHandler(
	base *BaseHandler,
	companyService services.CompanyService,
	recruitmentService services.RecruitmentService,
	uploadService services.UploadService,
) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler:        base,
		companyService:     companyService,
		recruitmentService: recruitmentService,
		uploadService:      uploadService,
	}
}

func (h *CompanyHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	company := r.Group("/company")
	company.Use(g.Auth, middleware.RequireRoles(models.UserRoleCompany))
	{
		company.GET("/dashboard", h.Dashboard)
		company.GET("/colleges", h.ListColleges)

		company.POST("/drives", h.CreateDrive)
		company.GET("/drives", h.ListDrives)
		company.GET("/drives/:id", h.GetDrive)
		company.PUT("/drives/:id", h.UpdateDrive)
		company.POST("/drives/:id/invite-colleges", h.InviteColleges)
		company.POST("/drives/:id/brochure", h.UploadBrochure)

		company.GET("/drives/:id/applicants", h.ListApplicants)
		company.POST("/drives/:id/shortlist", h.Shortlist)
		company.POST("/drives/:id/advance-round", h.AdvanceRound)
		company.POST("/drives/:id/offers", h.IssueOffers)
		company.POST("/drives/:id/offer-letters", h.UploadOfferLetter)
		company.GET("/drives/:id/offers", h.ListOffers)
		company.GET("/drives/:id/export", h.ExportSelected)

		company.POST("/rounds/schedule", h.ScheduleRound)
	}
}

// --- Дашборд и справочники ---

func (h *CompanyHandler) Dashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.companyService.Dashboard(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *CompanyHandler) ListColleges(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.companyService.ListColleges(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// --- Drives ---

func (h *CompanyHandler) CreateDrive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDriveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	drive, err := h.companyService.CreateDrive(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, drive)
}

func (h *CompanyHandler) ListDrives(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.companyService.ListDrives(h.GetDB(c), userID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CompanyHandler) GetDrive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	drive, err := h.companyService.GetDrive(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, drive)
}

func (h *CompanyHandler) UpdateDrive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDriveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	drive, err := h.companyService.UpdateDrive(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, drive)
}

func (h *CompanyHandler) InviteColleges(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.InviteCollegesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.companyService.InviteColleges(h.GetDB(c), userID, c.Param("id"), req.CollegeIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// --- Кандидаты ---

func (h *CompanyHandler) ListApplicants(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var filter dto.ApplicantQuery
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.companyService.ListApplicants(h.GetDB(c), userID, c.Param("id"), filter, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CompanyHandler) Shortlist(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ShortlistRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.recruitmentService.Shortlist(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CompanyHandler) AdvanceRound(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AdvanceRoundRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.recruitmentService.AdvanceRound(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CompanyHandler) IssueOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.IssueOffersRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.recruitmentService.IssueOffers(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CompanyHandler) ListOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, ok := h.BindPage(c)
	if !ok {
		return
	}

	response, err := h.companyService.ListOffers(h.GetDB(c), userID, c.Param("id"), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *CompanyHandler) ExportSelected(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	driveID := c.Param("id")
	table, err := h.companyService.ExportSelected(h.GetDB(c), userID, driveID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.WriteExport(c, table, "selected-candidates-"+driveID)
}

func (h *CompanyHandler) ScheduleRound(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleRoundRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.recruitmentService.ScheduleRound(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// --- Загрузки ---

func (h *CompanyHandler) UploadBrochure(c *gin.Context) {
	h.upload(c, "brochure", h.uploadService.UploadBrochure)
}

func (h *CompanyHandler) UploadOfferLetter(c *gin.Context) {
	h.upload(c, "offerLetter", h.uploadService.UploadOfferLetter)
}

type driveUpload func(ctx context.Context, db *gorm.DB, userID, driveID string, file *multipart.FileHeader) (*dto.UploadResponse, error)

func (h *CompanyHandler) upload(c *gin.Context, field string, save driveUpload) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		apperrors.HandleError(c, apperrors.FieldError(field, "File is required"))
		return
	}

	response, err := save(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
