package services

import (
	"errors"
	"strings"
	"time"

	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	SignupStudent(db *gorm.DB, req *dto.StudentSignupRequest) (*dto.AuthResponse, error)
	SignupCompany(db *gorm.DB, req *dto.CompanySignupRequest) (*dto.AuthResponse, error)
	SignupCollege(db *gorm.DB, req *dto.CollegeSignupRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Refresh ротирует пару: старый refresh-токен удаляется
	Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	// Logout отзывает все refresh-токены пользователя
	Logout(db *gorm.DB, userID string) error
	Me(db *gorm.DB, userID string) (*dto.MeResponse, error)
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	studentRepo repositories.StudentRepository
	orgRepo     repositories.OrganizationRepository
	tokens      *auth.TokenManager
}

func NewAuthService(
	userRepo repositories.UserRepository,
	studentRepo repositories.StudentRepository,
	orgRepo repositories.OrganizationRepository,
	tokens *auth.TokenManager,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		orgRepo:     orgRepo,
		tokens:      tokens,
	}
}

// ==========================
// Signup
// ==========================

func (s *AuthServiceImpl) SignupStudent(db *gorm.DB, req *dto.StudentSignupRequest) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.orgRepo.FindCollegeByID(tx, req.CollegeID); err != nil {
		return nil, handleOrganizationError(err)
	}

	user := &models.User{Email: req.Email, Role: models.UserRoleStudent}
	if err := s.createUser(tx, user, req.Password); err != nil {
		return nil, err
	}

	student := &models.Student{
		UserID:    user.ID,
		Name:      strings.TrimSpace(req.Name),
		CollegeID: req.CollegeID,
		Branch:    strings.TrimSpace(req.Branch),
		Batch:     strings.TrimSpace(req.Batch),
		CGPA:      req.CGPA,
	}
	if err := s.studentRepo.Create(tx, student); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp, err := s.issue(tx, user, &dto.ProfileDTO{ID: student.ID, Name: student.Name})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *AuthServiceImpl) SignupCompany(db *gorm.DB, req *dto.CompanySignupRequest) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.ensureEmailFree(tx, req.Email); err != nil {
		return nil, err
	}

	company := &models.Company{
		Name:   strings.TrimSpace(req.Name),
		Domain: strings.TrimSpace(req.Domain),
	}
	company.RecruiterContacts = append(company.RecruiterContacts, models.Contact{Email: req.Email})
	if err := s.orgRepo.CreateCompany(tx, company); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{Email: req.Email, Role: models.UserRoleCompany, CompanyID: &company.ID}
	if err := s.createUser(tx, user, req.Password); err != nil {
		return nil, err
	}

	resp, err := s.issue(tx, user, &dto.ProfileDTO{ID: company.ID, Name: company.Name})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *AuthServiceImpl) SignupCollege(db *gorm.DB, req *dto.CollegeSignupRequest) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.ensureEmailFree(tx, req.Email); err != nil {
		return nil, err
	}

	college := &models.College{
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		Departments: models.StringList(req.Departments),
	}
	college.TPOContacts = append(college.TPOContacts, models.Contact{Email: req.Email})
	if err := s.orgRepo.CreateCollege(tx, college); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{Email: req.Email, Role: models.UserRoleCollege, CollegeID: &college.ID}
	if err := s.createUser(tx, user, req.Password); err != nil {
		return nil, err
	}

	resp, err := s.issue(tx, user, &dto.ProfileDTO{ID: college.ID, Name: college.Name})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// ==========================
// Sessions
// ==========================

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	profile, err := s.profileOf(tx, user)
	if err != nil {
		return nil, err
	}

	resp, err := s.issue(tx, user, profile)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *AuthServiceImpl) Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	hash := auth.HashToken(refreshToken)
	stored, err := s.userRepo.FindRefreshToken(tx, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if stored.UserID != claims.UserID || stored.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrInvalidToken
	}

	// Параллельный refresh тем же токеном проиграет здесь
	if err := s.userRepo.DeleteRefreshToken(tx, hash); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(tx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	profile, err := s.profileOf(tx, user)
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(tx, user, profile)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *AuthServiceImpl) Logout(db *gorm.DB, userID string) error {
	if err := s.userRepo.DeleteUserRefreshTokens(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) Me(db *gorm.DB, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	profile, err := s.profileOf(db, user)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: dto.NewUserDTO(user), Profile: profile}, nil
}

// ==========================
// Helpers
// ==========================

func (s *AuthServiceImpl) ensureEmailFree(db *gorm.DB, email string) error {
	_, err := s.userRepo.FindByEmail(db, email)
	switch {
	case err == nil:
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrUserNotFound):
		return nil
	default:
		return apperrors.InternalError(err)
	}
}

func (s *AuthServiceImpl) createUser(db *gorm.DB, user *models.User, password string) error {
	if err := s.ensureEmailFree(db, user.Email); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// issue выдает пару токенов и сохраняет хеш refresh-токена
func (s *AuthServiceImpl) issue(db *gorm.DB, user *models.User, profile *dto.ProfileDTO) (*dto.AuthResponse, error) {
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.CreateRefreshToken(db, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: auth.HashToken(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             dto.NewUserDTO(user),
		Profile:          profile,
	}, nil
}

func (s *AuthServiceImpl) profileOf(db *gorm.DB, user *models.User) (*dto.ProfileDTO, error) {
	switch user.Role {
	case models.UserRoleStudent:
		student, err := s.studentRepo.FindByUserID(db, user.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrStudentNotFound) {
				return nil, nil
			}
			return nil, apperrors.InternalError(err)
		}
		return &dto.ProfileDTO{ID: student.ID, Name: student.Name}, nil

	case models.UserRoleCollege:
		if user.CollegeID == nil {
			return nil, nil
		}
		college, err := s.orgRepo.FindCollegeByID(db, *user.CollegeID)
		if err != nil {
			return nil, handleOrganizationError(err)
		}
		return &dto.ProfileDTO{ID: college.ID, Name: college.Name}, nil

	case models.UserRoleCompany:
		if user.CompanyID == nil {
			return nil, nil
		}
		company, err := s.orgRepo.FindCompanyByID(db, *user.CompanyID)
		if err != nil {
			return nil, handleOrganizationError(err)
		}
		return &dto.ProfileDTO{ID: company.ID, Name: company.Name}, nil
	}
	return nil, nil
}

func handleOrganizationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCollegeNotFound):
		return apperrors.ErrCollegeNotFound
	case errors.Is(err, repositories.ErrCompanyNotFound):
		return apperrors.ErrCompanyNotFound
	}
	return apperrors.InternalError(err)
}
