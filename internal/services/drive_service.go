package services

import (
	"errors"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// DriveService - каталог drives со стороны студента
type DriveService interface {
	// ListEligible - активные drives колледжа студента, критериям которых он соответствует
	ListEligible(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	GetForStudent(db *gorm.DB, userID, driveID string) (*dto.StudentDrive, error)
}

type DriveServiceImpl struct {
	studentRepo       repositories.StudentRepository
	driveRepo         repositories.DriveRepository
	participationRepo repositories.ParticipationRepository
	applicationRepo   repositories.ApplicationRepository
}

func NewDriveService(
	studentRepo repositories.StudentRepository,
	driveRepo repositories.DriveRepository,
	participationRepo repositories.ParticipationRepository,
	applicationRepo repositories.ApplicationRepository,
) DriveService {
	return &DriveServiceImpl{
		studentRepo:       studentRepo,
		driveRepo:         driveRepo,
		participationRepo: participationRepo,
		applicationRepo:   applicationRepo,
	}
}

func (s *DriveServiceImpl) ListEligible(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	student, err := s.studentRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	// Выборка уже ограничена active + Accepted, остаются только критерии
	drives, err := s.driveRepo.ListActiveForCollege(db, student.CollegeID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	eligible := make([]models.Drive, 0, len(drives))
	driveIDs := make([]string, 0, len(drives))
	for _, d := range drives {
		if criteriaFailure(student, d.Criteria) != "" {
			continue
		}
		eligible = append(eligible, d)
		driveIDs = append(driveIDs, d.ID)
	}

	apps, err := s.applicationRepo.MapByStudentForDrives(db, student.ID, driveIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Критерии считаются в памяти, поэтому и страница режется в памяти
	page := pageOf(q)
	total := int64(len(eligible))
	start := min((page.Page-1)*page.Limit, len(eligible))
	end := min(start+page.Limit, len(eligible))

	items := make([]dto.StudentDrive, 0, end-start)
	for _, d := range eligible[start:end] {
		item := dto.StudentDrive{Drive: d, Eligibility: dto.Eligibility{Eligible: true}}
		if app, ok := apps[d.ID]; ok {
			attachApplication(&item, &app)
		}
		items = append(items, item)
	}

	return buildPaginatedResponse(items, total, page), nil
}

func (s *DriveServiceImpl) GetForStudent(db *gorm.DB, userID, driveID string) (*dto.StudentDrive, error) {
	student, err := s.studentRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	drive, err := s.driveRepo.FindByID(db, driveID)
	if err != nil {
		return nil, handleDriveError(err)
	}

	participation, err := s.participationRepo.FindByDriveAndCollege(db, drive.ID, student.CollegeID)
	if err != nil && !errors.Is(err, repositories.ErrInvitationNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if !participation.IsAccepted() {
		return nil, apperrors.ErrCollegeNotParticipating
	}

	result := EvaluateEligibility(student, drive, participation)
	item := &dto.StudentDrive{
		Drive:       *drive,
		Eligibility: dto.Eligibility{Eligible: result.Eligible, Reason: result.Reason},
	}

	app, err := s.applicationRepo.FindByStudentAndDrive(db, student.ID, drive.ID)
	switch {
	case err == nil:
		attachApplication(item, app)
	case !errors.Is(err, repositories.ErrApplicationNotFound):
		return nil, apperrors.InternalError(err)
	}
	return item, nil
}

func attachApplication(item *dto.StudentDrive, app *models.Application) {
	status := app.Status
	item.HasApplied = true
	item.ApplicationID = app.ID
	item.ApplicationStatus = &status
}

func handleDriveError(err error) error {
	if errors.Is(err, repositories.ErrDriveNotFound) {
		return apperrors.ErrDriveNotFound
	}
	return apperrors.InternalError(err)
}
