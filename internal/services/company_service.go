package services

import (
	"errors"
	"fmt"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/export"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CompanyService - кабинет компании: drives, приглашения колледжей, кандидаты и выгрузки
type CompanyService interface {
	Dashboard(db *gorm.DB, userID string) (*dto.CompanyDashboard, error)
	ListColleges(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)

	CreateDrive(db *gorm.DB, userID string, req *dto.CreateDriveRequest) (*dto.DriveDetail, error)
	ListDrives(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	GetDrive(db *gorm.DB, userID, driveID string) (*dto.DriveDetail, error)
	UpdateDrive(db *gorm.DB, userID, driveID string, req *dto.UpdateDriveRequest) (*models.Drive, error)
	InviteColleges(db *gorm.DB, userID, driveID string, collegeIDs []string) (*dto.InviteResult, error)

	ListApplicants(db *gorm.DB, userID, driveID string, filter dto.ApplicantQuery, q dto.PageQuery) (*dto.PaginatedResponse, error)
	ListOffers(db *gorm.DB, userID, driveID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	ExportSelected(db *gorm.DB, userID, driveID string) (*export.Table, error)
}

type CompanyServiceImpl struct {
	actors
	orgRepo           repositories.OrganizationRepository
	driveRepo         repositories.DriveRepository
	participationRepo repositories.ParticipationRepository
	applicationRepo   repositories.ApplicationRepository
	offerRepo         repositories.OfferRepository
	notifications     NotificationService
	now               func() time.Time
}

func NewCompanyService(
	userRepo repositories.UserRepository,
	orgRepo repositories.OrganizationRepository,
	driveRepo repositories.DriveRepository,
	participationRepo repositories.ParticipationRepository,
	applicationRepo repositories.ApplicationRepository,
	offerRepo repositories.OfferRepository,
	notifications NotificationService,
) CompanyService {
	return &CompanyServiceImpl{
		actors:            actors{users: userRepo},
		orgRepo:           orgRepo,
		driveRepo:         driveRepo,
		participationRepo: participationRepo,
		applicationRepo:   applicationRepo,
		offerRepo:         offerRepo,
		notifications:     notifications,
		now:               time.Now,
	}
}

// ==========================
// Dashboard и справочник колледжей
// ==========================

func (s *CompanyServiceImpl) Dashboard(db *gorm.DB, userID string) (*dto.CompanyDashboard, error) {
	companyID, err := s.companyOf(db, userID)
	if err != nil {
		return nil, err
	}

	company, err := s.orgRepo.FindCompanyByID(db, companyID)
	if err != nil {
		return nil, handleOrganizationError(err)
	}

	var stats dto.CompanyStats
	if stats.TotalDrives, err = s.driveRepo.CountByCompany(db, companyID, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.ActiveDrives, err = s.driveRepo.CountByCompany(db, companyID, models.DriveStatusActive); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.TotalApplications, err = s.applicationRepo.CountByCompany(db, companyID, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.OfferedCount, err = s.offerRepo.CountByCompany(db, companyID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CompanyDashboard{Company: company, Stats: stats}, nil
}

func (s *CompanyServiceImpl) ListColleges(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	if _, err := s.companyOf(db, userID); err != nil {
		return nil, err
	}

	page := pageOf(q)
	colleges, total, err := s.orgRepo.ListColleges(db, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(colleges, total, page), nil
}

// ==========================
// Drives
// ==========================

func (s *CompanyServiceImpl) CreateDrive(db *gorm.DB, userID string, req *dto.CreateDriveRequest) (*dto.DriveDetail, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	companyID, err := s.companyOf(tx, userID)
	if err != nil {
		return nil, err
	}

	drive := &models.Drive{
		CompanyID:      companyID,
		Role:           req.Role,
		CTC:            req.CTC,
		Stipend:        req.Stipend,
		Mode:           req.Mode,
		RoundStructure: buildRounds(req.RoundStructure),
		Criteria:       buildCriteria(req.EligibilityCriteria),
		Status:         models.DriveStatusDraft,
		BrochureLink:   req.BrochureLink,
	}
	if drive.Mode == "" {
		drive.Mode = models.DriveModeOnCampus
	}
	if err := s.driveRepo.Create(tx, drive); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if drive.Company, err = s.orgRepo.FindCompanyByID(tx, companyID); err != nil {
		return nil, handleOrganizationError(err)
	}

	invited, err := s.invite(tx, drive.ID, req.CollegeIDs)
	if err != nil {
		return nil, err
	}

	colleges, err := s.participationRepo.ListByDrive(tx, drive.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifyInvited(db, drive, invited)
	return &dto.DriveDetail{Drive: *drive, InvitedColleges: colleges}, nil
}

func (s *CompanyServiceImpl) ListDrives(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	companyID, err := s.companyOf(db, userID)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	drives, total, err := s.driveRepo.ListByCompany(db, companyID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(drives, total, page), nil
}

func (s *CompanyServiceImpl) GetDrive(db *gorm.DB, userID, driveID string) (*dto.DriveDetail, error) {
	drive, err := s.ownedDrive(db, userID, driveID)
	if err != nil {
		return nil, err
	}

	colleges, err := s.participationRepo.ListByDrive(db, drive.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.DriveDetail{Drive: *drive, InvitedColleges: colleges}, nil
}

func (s *CompanyServiceImpl) UpdateDrive(db *gorm.DB, userID, driveID string, req *dto.UpdateDriveRequest) (*models.Drive, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	drive, err := s.ownedDrive(tx, userID, driveID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		drive.Role = *req.Role
	}
	if req.CTC != nil {
		drive.CTC = req.CTC
	}
	if req.Stipend != nil {
		drive.Stipend = req.Stipend
	}
	if req.Mode != nil {
		drive.Mode = *req.Mode
	}
	if req.RoundStructure != nil {
		drive.RoundStructure = buildRounds(req.RoundStructure)
	}
	if req.EligibilityCriteria != nil {
		drive.Criteria = buildCriteria(req.EligibilityCriteria)
	}
	if req.Status != nil {
		drive.Status = *req.Status
	}
	if req.BrochureLink != nil {
		drive.BrochureLink = *req.BrochureLink
	}

	if err := s.driveRepo.Update(tx, drive); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return drive, nil
}

func (s *CompanyServiceImpl) InviteColleges(db *gorm.DB, userID, driveID string, collegeIDs []string) (*dto.InviteResult, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	drive, err := s.ownedDrive(tx, userID, driveID)
	if err != nil {
		return nil, err
	}

	invited, err := s.invite(tx, drive.ID, collegeIDs)
	if err != nil {
		return nil, err
	}
	if len(invited) == 0 {
		return nil, apperrors.ErrAllCollegesInvited
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifyInvited(db, drive, invited)
	return &dto.InviteResult{InvitedCount: len(invited)}, nil
}

// invite создает приглашения, пропуская уже приглашенные колледжи.
// Возвращает id колледжей, приглашенных этим вызовом.
func (s *CompanyServiceImpl) invite(tx *gorm.DB, driveID string, collegeIDs []string) ([]string, error) {
	collegeIDs = uniqueIDs(collegeIDs)
	if len(collegeIDs) == 0 {
		return nil, nil
	}

	colleges, err := s.orgRepo.FindCollegesByIDs(tx, collegeIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(colleges) != len(collegeIDs) {
		return nil, apperrors.ErrCollegeNotFound
	}

	existing, err := s.participationRepo.InvitedCollegeIDs(tx, driveID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	already := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		already[id] = struct{}{}
	}

	now := s.now()
	invited := make([]string, 0, len(collegeIDs))
	for _, collegeID := range collegeIDs {
		if _, ok := already[collegeID]; ok {
			continue
		}
		dc := &models.DriveCollege{
			DriveID:             driveID,
			CollegeID:           collegeID,
			ParticipationStatus: models.ParticipationInvited,
			InvitedAt:           now,
		}
		if err := s.participationRepo.Create(tx, dc); err != nil {
			if errors.Is(err, repositories.ErrInvitationExists) {
				continue
			}
			return nil, apperrors.InternalError(err)
		}
		invited = append(invited, collegeID)
	}
	return invited, nil
}

func (s *CompanyServiceImpl) notifyInvited(db *gorm.DB, drive *models.Drive, collegeIDs []string) {
	var userIDs []string
	for _, collegeID := range collegeIDs {
		users, err := s.users.FindByCollegeID(db, collegeID)
		if err != nil {
			continue
		}
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}
	}

	s.notifications.Enqueue(db, notice{
		UserIDs:  userIDs,
		Channels: inAppOnly,
		Type:     models.NotificationInformational,
		Title:    "New drive invitation",
		Message:  fmt.Sprintf("%s invited your college to the %s drive.", companyName(drive), drive.Role),
		Payload:  notify.Payload{Template: email.TemplateGeneric, DriveID: drive.ID},
	}.rows())
}

// ==========================
// Кандидаты, офферы, выгрузка
// ==========================

func (s *CompanyServiceImpl) ListApplicants(db *gorm.DB, userID, driveID string, filter dto.ApplicantQuery, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	drive, err := s.ownedDrive(db, userID, driveID)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	apps, total, err := s.applicationRepo.ListByDrive(db, drive.ID, repositories.ApplicantFilter{
		CollegeID: filter.CollegeID,
		Status:    filter.Status,
		Page:      page,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(apps, total, page), nil
}

func (s *CompanyServiceImpl) ListOffers(db *gorm.DB, userID, driveID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	drive, err := s.ownedDrive(db, userID, driveID)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	offers, total, err := s.offerRepo.ListByDrive(db, drive.ID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(offers, total, page), nil
}

// ExportSelected - кандидаты drive в статусах OFFERED и ACCEPTED
func (s *CompanyServiceImpl) ExportSelected(db *gorm.DB, userID, driveID string) (*export.Table, error) {
	drive, err := s.ownedDrive(db, userID, driveID)
	if err != nil {
		return nil, err
	}

	apps, err := s.applicationRepo.ListSelectedByDrive(db, drive.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	table := &export.Table{
		Sheet:  "Selected",
		Header: []string{"Name", "Email", "Branch", "Batch", "CGPA", "College", "Offer Status", "Acknowledged"},
		Rows:   make([][]interface{}, 0, len(apps)),
	}
	for _, app := range apps {
		var name, emailAddr, branch, batch, college, offerStatus string
		var cgpa float64
		acknowledged := false
		if st := app.Student; st != nil {
			name, branch, batch, cgpa = st.Name, st.Branch, st.Batch, st.CGPA
			if st.User != nil {
				emailAddr = st.User.Email
			}
		}
		if app.College != nil {
			college = app.College.Name
		}
		if app.Offer != nil {
			offerStatus = string(app.Offer.Status)
			acknowledged = app.Offer.AcknowledgedAt != nil
		}
		table.Rows = append(table.Rows, []interface{}{
			name, emailAddr, branch, batch, cgpa, college, offerStatus, export.YesNo(acknowledged),
		})
	}
	return table, nil
}

func (s *CompanyServiceImpl) ownedDrive(db *gorm.DB, userID, driveID string) (*models.Drive, error) {
	return findOwnedDrive(db, s.actors, s.driveRepo, userID, driveID)
}

// findOwnedDrive - drive чужой компании неотличим от несуществующего
func findOwnedDrive(db *gorm.DB, a actors, drives repositories.DriveRepository, userID, driveID string) (*models.Drive, error) {
	companyID, err := a.companyOf(db, userID)
	if err != nil {
		return nil, err
	}
	drive, err := drives.FindForCompany(db, driveID, companyID)
	if err != nil {
		return nil, handleDriveError(err)
	}
	return drive, nil
}

func buildRounds(in []dto.RoundInput) []models.Round {
	rounds := make([]models.Round, 0, len(in))
	for i, r := range in {
		round := models.Round{Index: i, Title: r.Title, Type: r.Type}
		if r.SchedulingInfo != nil {
			round.SchedulingInfo = &models.SchedulingInfo{
				Venue: r.SchedulingInfo.Venue,
				Link:  r.SchedulingInfo.Link,
				Date:  r.SchedulingInfo.Date,
				Mode:  r.SchedulingInfo.Mode,
			}
		}
		rounds = append(rounds, round)
	}
	return rounds
}

func buildCriteria(in *dto.CriteriaInput) models.EligibilityCriteria {
	if in == nil {
		return models.EligibilityCriteria{}
	}
	return models.EligibilityCriteria{
		MinCGPA:         in.MinCGPA,
		AllowedBranches: models.StringList(in.AllowedBranches),
		Batch:           in.Batch,
	}
}
