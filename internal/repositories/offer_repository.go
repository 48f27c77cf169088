package repositories

import (
	"errors"
	"time"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository interface {
	// Upsert создает оффер или перевыпускает существующий (status=issued, acknowledged_at=NULL)
	Upsert(db *gorm.DB, applicationID, link string, issuedAt time.Time) (*models.Offer, error)
	FindByApplicationID(db *gorm.DB, applicationID string) (*models.Offer, error)
	FindForStudent(db *gorm.DB, id, studentID string) (*models.Offer, error)
	Update(db *gorm.DB, offer *models.Offer) error
	ListByStudent(db *gorm.DB, studentID string, page Page) ([]models.Offer, int64, error)
	ListByDrive(db *gorm.DB, driveID string, page Page) ([]models.Offer, int64, error)
	CountByCompany(db *gorm.DB, companyID string) (int64, error)
}

type offerRepository struct{}

func NewOfferRepository() OfferRepository {
	return &offerRepository{}
}

func (r *offerRepository) Upsert(db *gorm.DB, applicationID, link string, issuedAt time.Time) (*models.Offer, error) {
	offer, err := r.FindByApplicationID(db, applicationID)
	if err != nil && !errors.Is(err, ErrOfferNotFound) {
		return nil, err
	}

	if offer == nil {
		offer = &models.Offer{
			ApplicationID:   applicationID,
			OfferLetterLink: link,
			IssuedAt:        issuedAt,
			Status:          models.OfferStatusIssued,
		}
		if err := db.Omit(clause.Associations).Create(offer).Error; err != nil {
			return nil, err
		}
		return offer, nil
	}

	offer.OfferLetterLink = link
	offer.IssuedAt = issuedAt
	offer.Status = models.OfferStatusIssued
	offer.AcknowledgedAt = nil
	if err := r.Update(db, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *offerRepository) FindByApplicationID(db *gorm.DB, applicationID string) (*models.Offer, error) {
	var offer models.Offer
	if err := db.Where("application_id = ?", applicationID).First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) FindForStudent(db *gorm.DB, id, studentID string) (*models.Offer, error) {
	var offer models.Offer
	err := db.Joins("JOIN applications ON applications.id = offers.application_id").
		Where("offers.id = ? AND applications.student_id = ?", id, studentID).
		Preload("Application").Preload("Application.Drive").
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) Update(db *gorm.DB, offer *models.Offer) error {
	return db.Omit(clause.Associations).Save(offer).Error
}

func (r *offerRepository) ListByStudent(db *gorm.DB, studentID string, page Page) ([]models.Offer, int64, error) {
	var offers []models.Offer
	var total int64

	query := db.Model(&models.Offer{}).
		Joins("JOIN applications ON applications.id = offers.application_id").
		Where("applications.student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Application").Preload("Application.Drive").Preload("Application.Drive.Company").
		Order("offers.issued_at DESC").
		Scopes(paginate(page)).
		Find(&offers).Error
	return offers, total, err
}

func (r *offerRepository) ListByDrive(db *gorm.DB, driveID string, page Page) ([]models.Offer, int64, error) {
	var offers []models.Offer
	var total int64

	query := db.Model(&models.Offer{}).
		Joins("JOIN applications ON applications.id = offers.application_id").
		Where("applications.drive_id = ?", driveID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Application").Preload("Application.Student").Preload("Application.College").
		Order("offers.issued_at DESC").
		Scopes(paginate(page)).
		Find(&offers).Error
	return offers, total, err
}

func (r *offerRepository) CountByCompany(db *gorm.DB, companyID string) (int64, error) {
	var count int64
	err := db.Model(&models.Offer{}).
		Joins("JOIN applications ON applications.id = offers.application_id").
		Joins("JOIN drives ON drives.id = applications.drive_id").
		Where("drives.company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
