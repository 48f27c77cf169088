package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDriveNotFound = errors.New("drive not found")

type DriveRepository interface {
	Create(db *gorm.DB, drive *models.Drive) error
	FindByID(db *gorm.DB, id string) (*models.Drive, error)
	// FindForCompany возвращает ErrDriveNotFound, если drive принадлежит другой компании
	FindForCompany(db *gorm.DB, id, companyID string) (*models.Drive, error)
	Update(db *gorm.DB, drive *models.Drive) error
	ListByCompany(db *gorm.DB, companyID string, page Page) ([]models.Drive, int64, error)
	// CountByCompany - пустой status означает "все"
	CountByCompany(db *gorm.DB, companyID string, status models.DriveStatus) (int64, error)
	// ListActiveForCollege - активные drives, на которые колледж согласился
	ListActiveForCollege(db *gorm.DB, collegeID string) ([]models.Drive, error)
}

type driveRepository struct{}

func NewDriveRepository() DriveRepository {
	return &driveRepository{}
}

func (r *driveRepository) Create(db *gorm.DB, drive *models.Drive) error {
	return db.Omit(clause.Associations).Create(drive).Error
}

func (r *driveRepository) FindByID(db *gorm.DB, id string) (*models.Drive, error) {
	var drive models.Drive
	if err := db.Preload("Company").First(&drive, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriveNotFound
		}
		return nil, err
	}
	return &drive, nil
}

func (r *driveRepository) FindForCompany(db *gorm.DB, id, companyID string) (*models.Drive, error) {
	var drive models.Drive
	err := db.Preload("Company").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&drive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriveNotFound
		}
		return nil, err
	}
	return &drive, nil
}

func (r *driveRepository) Update(db *gorm.DB, drive *models.Drive) error {
	return db.Omit(clause.Associations).Save(drive).Error
}

func (r *driveRepository) ListByCompany(db *gorm.DB, companyID string, page Page) ([]models.Drive, int64, error) {
	var drives []models.Drive
	var total int64

	query := db.Model(&models.Drive{}).Where("company_id = ?", companyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Company").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&drives).Error
	return drives, total, err
}

func (r *driveRepository) CountByCompany(db *gorm.DB, companyID string, status models.DriveStatus) (int64, error) {
	var count int64
	query := db.Model(&models.Drive{}).Where("company_id = ?", companyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *driveRepository) ListActiveForCollege(db *gorm.DB, collegeID string) ([]models.Drive, error) {
	var drives []models.Drive
	err := db.Preload("Company").
		Joins("JOIN drive_colleges ON drive_colleges.drive_id = drives.id").
		Where("drive_colleges.college_id = ? AND drive_colleges.participation_status = ?", collegeID, models.ParticipationAccepted).
		Where("drives.status = ?", models.DriveStatusActive).
		Order("drives.created_at DESC").
		Find(&drives).Error
	return drives, err
}
