package repositories

import (
	"errors"
	"strings"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStudentNotFound = errors.New("student not found")

// StudentFilter - фильтр списка студентов колледжа
type StudentFilter struct {
	Verified *bool
	Search   string
	Page     Page
}

type StudentRepository interface {
	Create(db *gorm.DB, student *models.Student) error
	FindByID(db *gorm.DB, id string) (*models.Student, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Student, error)
	// FindInCollege возвращает ErrStudentNotFound и для студентов чужого колледжа
	FindInCollege(db *gorm.DB, id, collegeID string) (*models.Student, error)
	Update(db *gorm.DB, student *models.Student) error
	SetVerified(db *gorm.DB, id string, verified bool) error

	ListByCollege(db *gorm.DB, collegeID string, filter StudentFilter) ([]models.Student, int64, error)
	CountByCollege(db *gorm.DB, collegeID string, verifiedOnly bool) (int64, error)
	// FindPushCandidates - верифицированные студенты колледжа, проходящие критерии drive
	FindPushCandidates(db *gorm.DB, collegeID string, criteria models.EligibilityCriteria) ([]models.Student, error)
}

type studentRepository struct{}

func NewStudentRepository() StudentRepository {
	return &studentRepository{}
}

func (r *studentRepository) Create(db *gorm.DB, student *models.Student) error {
	return db.Omit(clause.Associations).Create(student).Error
}

func (r *studentRepository) FindByID(db *gorm.DB, id string) (*models.Student, error) {
	var student models.Student
	if err := db.Preload("User").First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByUserID(db *gorm.DB, userID string) (*models.Student, error) {
	var student models.Student
	if err := db.Preload("College").First(&student, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindInCollege(db *gorm.DB, id, collegeID string) (*models.Student, error) {
	var student models.Student
	err := db.Preload("User").
		Where("id = ? AND college_id = ?", id, collegeID).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Update(db *gorm.DB, student *models.Student) error {
	return db.Omit(clause.Associations).Save(student).Error
}

func (r *studentRepository) SetVerified(db *gorm.DB, id string, verified bool) error {
	result := db.Model(&models.Student{}).Where("id = ?", id).Update("is_verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *studentRepository) ListByCollege(db *gorm.DB, collegeID string, filter StudentFilter) ([]models.Student, int64, error) {
	var students []models.Student
	var total int64

	query := db.Model(&models.Student{}).Where("college_id = ?", collegeID)
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(branch) LIKE ? OR batch LIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("name ASC").
		Scopes(paginate(filter.Page)).
		Find(&students).Error
	return students, total, err
}

func (r *studentRepository) CountByCollege(db *gorm.DB, collegeID string, verifiedOnly bool) (int64, error) {
	var count int64
	query := db.Model(&models.Student{}).Where("college_id = ?", collegeID)
	if verifiedOnly {
		query = query.Where("is_verified = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *studentRepository) FindPushCandidates(db *gorm.DB, collegeID string, criteria models.EligibilityCriteria) ([]models.Student, error) {
	var students []models.Student

	query := db.Where("college_id = ? AND is_verified = ?", collegeID, true)
	if criteria.MinCGPA != nil {
		query = query.Where("cgpa >= ?", *criteria.MinCGPA)
	}
	if len(criteria.AllowedBranches) > 0 {
		query = query.Where("branch IN ?", []string(criteria.AllowedBranches))
	}
	if criteria.HasBatch() {
		query = query.Where("batch = ?", *criteria.Batch)
	}

	err := query.Order("name ASC").Find(&students).Error
	return students, err
}
