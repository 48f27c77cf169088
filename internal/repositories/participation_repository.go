package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvitationNotFound = errors.New("drive invitation not found")
	ErrInvitationExists   = errors.New("college already invited to drive")
)

// ParticipationRepository - журнал участия колледжей в drives (таблица drive_colleges)
type ParticipationRepository interface {
	Create(db *gorm.DB, dc *models.DriveCollege) error
	// FindForCollege ищет приглашение по id в пределах колледжа
	FindForCollege(db *gorm.DB, id, collegeID string) (*models.DriveCollege, error)
	FindByDriveAndCollege(db *gorm.DB, driveID, collegeID string) (*models.DriveCollege, error)
	InvitedCollegeIDs(db *gorm.DB, driveID string) ([]string, error)
	ListByDrive(db *gorm.DB, driveID string) ([]models.DriveCollege, error)
	ListByCollege(db *gorm.DB, collegeID string, page Page) ([]models.DriveCollege, int64, error)
	Update(db *gorm.DB, dc *models.DriveCollege) error
	// CountByCollege - пустой status означает "все"
	CountByCollege(db *gorm.DB, collegeID string, status models.ParticipationStatus) (int64, error)
}

type participationRepository struct{}

func NewParticipationRepository() ParticipationRepository {
	return &participationRepository{}
}

func (r *participationRepository) Create(db *gorm.DB, dc *models.DriveCollege) error {
	if err := db.Omit(clause.Associations).Create(dc).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrInvitationExists
		}
		return err
	}
	return nil
}

func (r *participationRepository) FindForCollege(db *gorm.DB, id, collegeID string) (*models.DriveCollege, error) {
	var dc models.DriveCollege
	err := db.Preload("Drive").
		Where("id = ? AND college_id = ?", id, collegeID).
		First(&dc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &dc, nil
}

func (r *participationRepository) FindByDriveAndCollege(db *gorm.DB, driveID, collegeID string) (*models.DriveCollege, error) {
	var dc models.DriveCollege
	err := db.Where("drive_id = ? AND college_id = ?", driveID, collegeID).First(&dc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &dc, nil
}

func (r *participationRepository) InvitedCollegeIDs(db *gorm.DB, driveID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.DriveCollege{}).Where("drive_id = ?", driveID).Pluck("college_id", &ids).Error
	return ids, err
}

func (r *participationRepository) ListByDrive(db *gorm.DB, driveID string) ([]models.DriveCollege, error) {
	var list []models.DriveCollege
	err := db.Preload("College").
		Where("drive_id = ?", driveID).
		Order("invited_at ASC").
		Find(&list).Error
	return list, err
}

func (r *participationRepository) ListByCollege(db *gorm.DB, collegeID string, page Page) ([]models.DriveCollege, int64, error) {
	var list []models.DriveCollege
	var total int64

	query := db.Model(&models.DriveCollege{}).Where("college_id = ?", collegeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Drive").Preload("Drive.Company").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&list).Error
	return list, total, err
}

func (r *participationRepository) Update(db *gorm.DB, dc *models.DriveCollege) error {
	return db.Omit(clause.Associations).Save(dc).Error
}

func (r *participationRepository) CountByCollege(db *gorm.DB, collegeID string, status models.ParticipationStatus) (int64, error) {
	var count int64
	query := db.Model(&models.DriveCollege{}).Where("college_id = ?", collegeID)
	if status != "" {
		query = query.Where("participation_status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
