package services

import (
	"errors"
	"fmt"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/export"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CollegeService interface {
	Dashboard(db *gorm.DB, userID string) (*dto.CollegeDashboard, error)

	ListStudents(db *gorm.DB, userID string, filter dto.StudentListQuery, q dto.PageQuery) (*dto.PaginatedResponse, error)
	VerifyStudent(db *gorm.DB, userID, studentID string, verified bool) (*models.Student, error)
	UpdateStudent(db *gorm.DB, userID, studentID string, req *dto.CollegeUpdateStudentRequest) (*models.Student, error)
	ExportStudents(db *gorm.DB, userID string) (*export.Table, error)

	ListDrives(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	// Respond - ответ на приглашение; invitationID - id записи DriveCollege
	Respond(db *gorm.DB, userID, invitationID, action string) (*models.DriveCollege, error)
	// PushEligible переводит подходящих верифицированных студентов в ELIGIBLE.
	// Каждый студент пишется своей транзакцией; при сбое возвращается частичный счетчик.
	PushEligible(db *gorm.DB, userID, driveID string) (*dto.PushResult, error)
}

type CollegeServiceImpl struct {
	actors
	orgRepo           repositories.OrganizationRepository
	studentRepo       repositories.StudentRepository
	driveRepo         repositories.DriveRepository
	participationRepo repositories.ParticipationRepository
	applicationRepo   repositories.ApplicationRepository
	placementRepo     repositories.PlacementRepository
	notifications     NotificationService
	now               func() time.Time
}

func NewCollegeService(
	userRepo repositories.UserRepository,
	orgRepo repositories.OrganizationRepository,
	studentRepo repositories.StudentRepository,
	driveRepo repositories.DriveRepository,
	participationRepo repositories.ParticipationRepository,
	applicationRepo repositories.ApplicationRepository,
	placementRepo repositories.PlacementRepository,
	notifications NotificationService,
) CollegeService {
	return &CollegeServiceImpl{
		actors:            actors{users: userRepo},
		orgRepo:           orgRepo,
		studentRepo:       studentRepo,
		driveRepo:         driveRepo,
		participationRepo: participationRepo,
		applicationRepo:   applicationRepo,
		placementRepo:     placementRepo,
		notifications:     notifications,
		now:               time.Now,
	}
}

// ==========================
// Dashboard
// ==========================

func (s *CollegeServiceImpl) Dashboard(db *gorm.DB, userID string) (*dto.CollegeDashboard, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	college, err := s.orgRepo.FindCollegeByID(db, collegeID)
	if err != nil {
		return nil, handleOrganizationError(err)
	}

	var stats dto.CollegeStats
	if stats.TotalStudents, err = s.studentRepo.CountByCollege(db, collegeID, false); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.VerifiedStudents, err = s.studentRepo.CountByCollege(db, collegeID, true); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.InvitedDrives, err = s.participationRepo.CountByCollege(db, collegeID, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.AcceptedDrives, err = s.participationRepo.CountByCollege(db, collegeID, models.ParticipationAccepted); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.Placements, err = s.placementRepo.CountByCollege(db, collegeID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CollegeDashboard{College: college, Stats: stats}, nil
}

// ==========================
// Students
// ==========================

func (s *CollegeServiceImpl) ListStudents(db *gorm.DB, userID string, filter dto.StudentListQuery, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	students, total, err := s.studentRepo.ListByCollege(db, collegeID, repositories.StudentFilter{
		Verified: filter.Verified,
		Search:   filter.Search,
		Page:     page,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(students, total, page), nil
}

func (s *CollegeServiceImpl) VerifyStudent(db *gorm.DB, userID, studentID string, verified bool) (*models.Student, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	collegeID, err := s.collegeOf(tx, userID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.FindInCollege(tx, studentID, collegeID)
	if err != nil {
		return nil, handleStudentError(err)
	}
	if err := s.studentRepo.SetVerified(tx, student.ID, verified); err != nil {
		return nil, apperrors.InternalError(err)
	}
	student.IsVerified = verified

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return student, nil
}

func (s *CollegeServiceImpl) UpdateStudent(db *gorm.DB, userID, studentID string, req *dto.CollegeUpdateStudentRequest) (*models.Student, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	collegeID, err := s.collegeOf(tx, userID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.FindInCollege(tx, studentID, collegeID)
	if err != nil {
		return nil, handleStudentError(err)
	}

	applyStudentChanges(student, req.Name, req.Branch, req.Batch, req.CGPA)
	if err := s.studentRepo.Update(tx, student); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return student, nil
}

func (s *CollegeServiceImpl) ExportStudents(db *gorm.DB, userID string) (*export.Table, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	students, _, err := s.studentRepo.ListByCollege(db, collegeID, repositories.StudentFilter{})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	table := &export.Table{
		Sheet:  "Students",
		Header: []string{"Name", "Email", "Branch", "Batch", "CGPA", "Verified", "ResumeLink"},
		Rows:   make([][]interface{}, 0, len(students)),
	}
	for _, st := range students {
		emailAddr := ""
		if st.User != nil {
			emailAddr = st.User.Email
		}
		table.Rows = append(table.Rows, []interface{}{
			st.Name, emailAddr, st.Branch, st.Batch, st.CGPA, export.YesNo(st.IsVerified), st.ResumeLink,
		})
	}
	return table, nil
}

// ==========================
// Drives
// ==========================

func (s *CollegeServiceImpl) ListDrives(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	invites, total, err := s.participationRepo.ListByCollege(db, collegeID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(invites, total, page), nil
}

func (s *CollegeServiceImpl) Respond(db *gorm.DB, userID, invitationID, action string) (*models.DriveCollege, error) {
	var status models.ParticipationStatus
	switch action {
	case "accept":
		status = models.ParticipationAccepted
	case "reject":
		status = models.ParticipationRejected
	default:
		return nil, apperrors.FieldError("action", "Must be one of: accept, reject")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	collegeID, err := s.collegeOf(tx, userID)
	if err != nil {
		return nil, err
	}

	invite, err := s.participationRepo.FindForCollege(tx, invitationID, collegeID)
	if err != nil {
		return nil, handleParticipationError(err)
	}

	now := s.now()
	invite.ParticipationStatus = status
	invite.RespondedAt = &now
	if err := s.participationRepo.Update(tx, invite); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invite, nil
}

func (s *CollegeServiceImpl) PushEligible(db *gorm.DB, userID, driveID string) (*dto.PushResult, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	participation, err := s.participationRepo.FindByDriveAndCollege(db, driveID, collegeID)
	if err != nil && !errors.Is(err, repositories.ErrInvitationNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if !participation.IsAccepted() {
		return nil, apperrors.ErrCollegeNotParticipating
	}

	drive, err := s.driveRepo.FindByID(db, driveID)
	if err != nil {
		return nil, handleDriveError(err)
	}

	students, err := s.studentRepo.FindPushCandidates(db, collegeID, drive.Criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var count int64
	pushed := make([]string, 0, len(students))
	for i := range students {
		changed, err := s.pushOne(db, &students[i], drive.ID)
		if err != nil {
			logger.CtxWithError(db.Statement.Context, "Push eligible stopped on student", err,
				"drive_id", drive.ID, "student_id", students[i].ID, "pushed", count)
			break
		}
		if changed {
			count++
			pushed = append(pushed, students[i].UserID)
		}
	}

	s.notifications.Enqueue(db, notice{
		UserIDs:  pushed,
		Channels: inAppOnly,
		Type:     models.NotificationInformational,
		Title:    "You are eligible for a new drive",
		Message:  fmt.Sprintf("Your college has marked you eligible for %s at %s.", drive.Role, companyName(drive)),
		Payload:  notify.Payload{Template: email.TemplateGeneric, DriveID: drive.ID},
	}.rows())

	return &dto.PushResult{
		Count:   count,
		Message: "Eligible applicants pushed successfully",
	}, nil
}

// pushOne создает или продвигает одну заявку. false - заявка уже дальше ELIGIBLE.
func (s *CollegeServiceImpl) pushOne(db *gorm.DB, student *models.Student, driveID string) (bool, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}
	defer tx.Rollback()

	app, err := s.applicationRepo.FindByStudentAndDrive(tx, student.ID, driveID)
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		app = &models.Application{
			StudentID:   student.ID,
			DriveID:     driveID,
			CollegeID:   student.CollegeID,
			Status:      models.StatusEligible,
			SubmittedAt: s.now(),
		}
		if err := s.applicationRepo.Create(tx, app, models.ActorCollege); err != nil {
			if errors.Is(err, repositories.ErrApplicationExists) {
				// студент подал заявку параллельно
				return false, nil
			}
			return false, err
		}
	case err != nil:
		return false, err
	case !canPushEligible(app.Status):
		return false, nil
	default:
		if err := s.applicationRepo.UpdateStatus(tx, app, models.StatusEligible, models.ActorCollege); err != nil {
			return false, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	return true, nil
}

func handleStudentError(err error) error {
	if errors.Is(err, repositories.ErrStudentNotFound) {
		return apperrors.ErrStudentNotFound
	}
	return apperrors.InternalError(err)
}

func handleParticipationError(err error) error {
	if errors.Is(err, repositories.ErrInvitationNotFound) {
		return apperrors.ErrInvitationNotFound
	}
	return apperrors.InternalError(err)
}

func companyName(d *models.Drive) string {
	if d.Company != nil && d.Company.Name != "" {
		return d.Company.Name
	}
	return "the company"
}
