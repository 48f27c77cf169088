package services

import (
	"errors"
	"strings"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type StudentService interface {
	GetProfile(db *gorm.DB, userID string) (*models.Student, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateStudentProfileRequest) (*models.Student, error)
	UpdateResume(db *gorm.DB, userID, resumeLink string) (*models.Student, error)
}

type StudentServiceImpl struct {
	studentRepo repositories.StudentRepository
}

func NewStudentService(studentRepo repositories.StudentRepository) StudentService {
	return &StudentServiceImpl{studentRepo: studentRepo}
}

func (s *StudentServiceImpl) GetProfile(db *gorm.DB, userID string) (*models.Student, error) {
	student, err := s.studentRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}
	return student, nil
}

func (s *StudentServiceImpl) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateStudentProfileRequest) (*models.Student, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	student, err := s.studentRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
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

func (s *StudentServiceImpl) UpdateResume(db *gorm.DB, userID, resumeLink string) (*models.Student, error) {
	resumeLink = strings.TrimSpace(resumeLink)
	if resumeLink == "" {
		return nil, apperrors.FieldError("resumeLink", "This field is required")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	student, err := s.studentRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}
	student.ResumeLink = resumeLink
	if err := s.studentRepo.Update(tx, student); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return student, nil
}

// applyStudentChanges - nil и пустые строки не меняют поле
func applyStudentChanges(student *models.Student, name, branch, batch *string, cgpa *float64) {
	if name != nil && strings.TrimSpace(*name) != "" {
		student.Name = strings.TrimSpace(*name)
	}
	if branch != nil && strings.TrimSpace(*branch) != "" {
		student.Branch = strings.TrimSpace(*branch)
	}
	if batch != nil && strings.TrimSpace(*batch) != "" {
		student.Batch = strings.TrimSpace(*batch)
	}
	if cgpa != nil {
		student.CGPA = *cgpa
	}
}

func handleStudentProfileError(err error) error {
	if errors.Is(err, repositories.ErrStudentNotFound) {
		return apperrors.ErrStudentProfileNotFound
	}
	return apperrors.InternalError(err)
}
