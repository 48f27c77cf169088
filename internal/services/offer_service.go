package services

import (
	"errors"
	"fmt"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type OfferService interface {
	ListMine(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	// Acknowledge - ответ студента на выданный оффер
	Acknowledge(db *gorm.DB, userID, offerID string, accept bool) (*models.Offer, error)
}

type OfferServiceImpl struct {
	userRepo        repositories.UserRepository
	studentRepo     repositories.StudentRepository
	offerRepo       repositories.OfferRepository
	applicationRepo repositories.ApplicationRepository
	notifications   NotificationService
	now             func() time.Time
}

func NewOfferService(
	userRepo repositories.UserRepository,
	studentRepo repositories.StudentRepository,
	offerRepo repositories.OfferRepository,
	applicationRepo repositories.ApplicationRepository,
	notifications NotificationService,
) OfferService {
	return &OfferServiceImpl{
		userRepo:        userRepo,
		studentRepo:     studentRepo,
		offerRepo:       offerRepo,
		applicationRepo: applicationRepo,
		notifications:   notifications,
		now:             time.Now,
	}
}

func (s *OfferServiceImpl) ListMine(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	student, err := s.studentRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	page := pageOf(q)
	offers, total, err := s.offerRepo.ListByStudent(db, student.ID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(offers, total, page), nil
}

func (s *OfferServiceImpl) Acknowledge(db *gorm.DB, userID, offerID string, accept bool) (*models.Offer, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	student, err := s.studentRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	offer, err := s.offerRepo.FindForStudent(tx, offerID, student.ID)
	if err != nil {
		return nil, handleOfferError(err)
	}
	app := offer.Application
	if offer.Status != models.OfferStatusIssued || app == nil || app.Status != models.StatusOffered {
		return nil, apperrors.ErrOfferNotIssued
	}

	appStatus, offerStatus := acknowledgeTarget(accept)
	now := s.now()
	offer.Status = offerStatus
	offer.AcknowledgedAt = &now
	if err := s.offerRepo.Update(tx, offer); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.applicationRepo.UpdateStatus(tx, app, appStatus, models.ActorStudent); err != nil {
		return nil, handleApplicationError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifyCompany(db, student, app, accept)
	return offer, nil
}

func (s *OfferServiceImpl) notifyCompany(db *gorm.DB, student *models.Student, app *models.Application, accept bool) {
	if app.Drive == nil {
		return
	}
	users, err := s.userRepo.FindByCompanyID(db, app.Drive.CompanyID)
	if err != nil || len(users) == 0 {
		return
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	verb := "declined"
	if accept {
		verb = "accepted"
	}
	s.notifications.Enqueue(db, notice{
		UserIDs:  ids,
		Channels: inAppAndEmail,
		Type:     models.NotificationInformational,
		Title:    "Offer " + verb,
		Message:  fmt.Sprintf("%s has %s the offer for %s.", student.Name, verb, app.Drive.Role),
		Payload:  notify.Payload{Template: email.TemplateOfferAcknowledged, DriveID: app.DriveID},
	}.rows())
}

func handleOfferError(err error) error {
	if errors.Is(err, repositories.ErrOfferNotFound) {
		return apperrors.ErrOfferNotFound
	}
	return apperrors.InternalError(err)
}
