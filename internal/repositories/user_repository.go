package repositories

import (
	"errors"
	"strings"
	"time"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	// FindByCompanyID / FindByCollegeID - сотрудники организации (получатели уведомлений)
	FindByCompanyID(db *gorm.DB, companyID string) ([]models.User, error)
	FindByCollegeID(db *gorm.DB, collegeID string) ([]models.User, error)

	// RefreshToken operations
	CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error
	FindRefreshToken(db *gorm.DB, tokenHash string) (*models.RefreshToken, error)
	DeleteRefreshToken(db *gorm.DB, tokenHash string) error
	DeleteUserRefreshTokens(db *gorm.DB, userID string) error
	CleanExpiredRefreshTokens(db *gorm.DB) (int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByCompanyID(db *gorm.DB, companyID string) ([]models.User, error) {
	var users []models.User
	err := db.Where("company_id = ? AND role = ?", companyID, models.UserRoleCompany).Find(&users).Error
	return users, err
}

func (r *userRepository) FindByCollegeID(db *gorm.DB, collegeID string) ([]models.User, error) {
	var users []models.User
	err := db.Where("college_id = ? AND role = ?", collegeID, models.UserRoleCollege).Find(&users).Error
	return users, err
}

// RefreshToken operations

func (r *userRepository) CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *userRepository) FindRefreshToken(db *gorm.DB, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *userRepository) DeleteRefreshToken(db *gorm.DB, tokenHash string) error {
	result := db.Where("token_hash = ?", tokenHash).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// токен уже ротирован параллельным запросом
		return ErrRefreshTokenNotFound
	}
	return nil
}

func (r *userRepository) DeleteUserRefreshTokens(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *userRepository) CleanExpiredRefreshTokens(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
