package services

import (
	"errors"
	"time"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	// Submit - заявка студента. Проверки идут строго по порядку, первая неудачная побеждает.
	Submit(db *gorm.DB, userID, driveID string) (*models.Application, error)
	ListMine(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	GetMine(db *gorm.DB, userID, applicationID string) (*models.Application, error)
}

type ApplicationServiceImpl struct {
	studentRepo       repositories.StudentRepository
	driveRepo         repositories.DriveRepository
	participationRepo repositories.ParticipationRepository
	applicationRepo   repositories.ApplicationRepository
	now               func() time.Time
}

func NewApplicationService(
	studentRepo repositories.StudentRepository,
	driveRepo repositories.DriveRepository,
	participationRepo repositories.ParticipationRepository,
	applicationRepo repositories.ApplicationRepository,
) ApplicationService {
	return &ApplicationServiceImpl{
		studentRepo:       studentRepo,
		driveRepo:         driveRepo,
		participationRepo: participationRepo,
		applicationRepo:   applicationRepo,
		now:               time.Now,
	}
}

func (s *ApplicationServiceImpl) Submit(db *gorm.DB, userID, driveID string) (*models.Application, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	student, err := s.studentRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}
	if !student.HasResume() {
		return nil, apperrors.ErrResumeRequired
	}

	drive, err := s.driveRepo.FindByID(tx, driveID)
	if err != nil {
		return nil, handleDriveError(err)
	}
	if !drive.IsActive() {
		return nil, apperrors.ErrDriveNotActive
	}

	participation, err := s.participationRepo.FindByDriveAndCollege(tx, drive.ID, student.CollegeID)
	if err != nil && !errors.Is(err, repositories.ErrInvitationNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if !participation.IsAccepted() {
		return nil, apperrors.ErrCollegeNotParticipating
	}

	if result := EvaluateEligibility(student, drive, participation); !result.Eligible {
		return nil, apperrors.ErrNotEligible.WithDetails(map[string]string{"reason": result.Reason})
	}

	_, err = s.applicationRepo.FindByStudentAndDrive(tx, student.ID, drive.ID)
	switch {
	case err == nil:
		return nil, apperrors.ErrAlreadyApplied
	case !errors.Is(err, repositories.ErrApplicationNotFound):
		return nil, apperrors.InternalError(err)
	}

	app := &models.Application{
		StudentID:   student.ID,
		DriveID:     drive.ID,
		CollegeID:   student.CollegeID,
		Status:      models.StatusApplied,
		SubmittedAt: s.now(),
	}
	if err := s.applicationRepo.Create(tx, app, models.ActorStudent); err != nil {
		return nil, handleApplicationError(err)
	}

	if err := tx.Commit().Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}

func (s *ApplicationServiceImpl) ListMine(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	student, err := s.studentRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	page := pageOf(q)
	apps, total, err := s.applicationRepo.ListByStudent(db, student.ID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(apps, total, page), nil
}

func (s *ApplicationServiceImpl) GetMine(db *gorm.DB, userID, applicationID string) (*models.Application, error) {
	student, err := s.studentRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	app, err := s.applicationRepo.FindForStudent(db, applicationID, student.ID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	return app, nil
}

func handleApplicationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound
	case errors.Is(err, repositories.ErrApplicationExists):
		return apperrors.ErrAlreadyApplied
	}
	return apperrors.InternalError(err)
}
