package repositories

import (
	"errors"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCollegeNotFound = errors.New("college not found")
	ErrCompanyNotFound = errors.New("company not found")
)

// OrganizationRepository - справочники колледжей и компаний
type OrganizationRepository interface {
	CreateCollege(db *gorm.DB, college *models.College) error
	FindCollegeByID(db *gorm.DB, id string) (*models.College, error)
	FindCollegesByIDs(db *gorm.DB, ids []string) ([]models.College, error)
	ListColleges(db *gorm.DB, page Page) ([]models.College, int64, error)
	UpdateCollege(db *gorm.DB, college *models.College) error

	CreateCompany(db *gorm.DB, company *models.Company) error
	FindCompanyByID(db *gorm.DB, id string) (*models.Company, error)
	UpdateCompany(db *gorm.DB, company *models.Company) error
}

type organizationRepository struct{}

func NewOrganizationRepository() OrganizationRepository {
	return &organizationRepository{}
}

func (r *organizationRepository) CreateCollege(db *gorm.DB, college *models.College) error {
	return db.Create(college).Error
}

func (r *organizationRepository) FindCollegeByID(db *gorm.DB, id string) (*models.College, error) {
	var college models.College
	if err := db.First(&college, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}
	return &college, nil
}

func (r *organizationRepository) FindCollegesByIDs(db *gorm.DB, ids []string) ([]models.College, error) {
	var colleges []models.College
	if len(ids) == 0 {
		return colleges, nil
	}
	err := db.Where("id IN ?", ids).Find(&colleges).Error
	return colleges, err
}

func (r *organizationRepository) ListColleges(db *gorm.DB, page Page) ([]models.College, int64, error) {
	var colleges []models.College
	var total int64

	if err := db.Model(&models.College{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("name ASC").Scopes(paginate(page)).Find(&colleges).Error
	return colleges, total, err
}

func (r *organizationRepository) UpdateCollege(db *gorm.DB, college *models.College) error {
	return db.Save(college).Error
}

func (r *organizationRepository) CreateCompany(db *gorm.DB, company *models.Company) error {
	return db.Create(company).Error
}

func (r *organizationRepository) FindCompanyByID(db *gorm.DB, id string) (*models.Company, error) {
	var company models.Company
	if err := db.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *organizationRepository) UpdateCompany(db *gorm.DB, company *models.Company) error {
	return db.Save(company).Error
}
