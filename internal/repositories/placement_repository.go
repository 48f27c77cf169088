package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlacementRepository interface {
	// Upsert по ключу (student, drive, college)
	Upsert(db *gorm.DB, record *models.PlacementRecord) error
	ListByCollege(db *gorm.DB, collegeID string, page Page) ([]models.PlacementRecord, int64, error)
	CountByCollege(db *gorm.DB, collegeID string) (int64, error)
}

type placementRepository struct{}

func NewPlacementRepository() PlacementRepository {
	return &placementRepository{}
}

func (r *placementRepository) Upsert(db *gorm.DB, record *models.PlacementRecord) error {
	var existing models.PlacementRecord
	err := db.Where("student_id = ? AND drive_id = ? AND college_id = ?",
		record.StudentID, record.DriveID, record.CollegeID).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Omit(clause.Associations).Create(record).Error
	case err != nil:
		return err
	}

	existing.OfferAccepted = record.OfferAccepted
	existing.JoiningStatus = record.JoiningStatus
	if err := db.Omit(clause.Associations).Save(&existing).Error; err != nil {
		return err
	}
	*record = existing
	return nil
}

func (r *placementRepository) ListByCollege(db *gorm.DB, collegeID string, page Page) ([]models.PlacementRecord, int64, error) {
	var records []models.PlacementRecord
	var total int64

	query := db.Model(&models.PlacementRecord{}).Where("college_id = ?", collegeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Student").Preload("Drive").Preload("Drive.Company").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&records).Error
	return records, total, err
}

func (r *placementRepository) CountByCollege(db *gorm.DB, collegeID string) (int64, error) {
	var count int64
	err := db.Model(&models.PlacementRecord{}).Where("college_id = ?", collegeID).Count(&count).Error
	return count, err
}
