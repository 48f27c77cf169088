package dto

import (
	"time"

	"hireflow_backend/internal/models"
)

// StudentSignupRequest - регистрация студента
type StudentSignupRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Name      string  `json:"name" validate:"required"`
	CollegeID string  `json:"collegeId" validate:"required,uuid"`
	Branch    string  `json:"branch" validate:"required"`
	Batch     string  `json:"batch" validate:"required"`
	CGPA      float64 `json:"cgpa" validate:"gte=0,lte=10"`
}

type CompanySignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Domain   string `json:"domain,omitempty"`
}

type CollegeSignupRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Name        string   `json:"name" validate:"required"`
	Location    string   `json:"location,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserDTO - базовая информация о пользователе
type UserDTO struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CollegeID *string         `json:"collegeId,omitempty"`
	CompanyID *string         `json:"companyId,omitempty"`
}

// ProfileDTO - краткий профиль в зависимости от роли
type ProfileDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken      string      `json:"accessToken"`
	RefreshToken     string      `json:"refreshToken"`
	AccessExpiresAt  time.Time   `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time   `json:"refreshExpiresAt"`
	User             UserDTO     `json:"user"`
	Profile          *ProfileDTO `json:"profile,omitempty"`
}

type MeResponse struct {
	User    UserDTO     `json:"user"`
	Profile *ProfileDTO `json:"profile,omitempty"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CollegeID: u.CollegeID,
		CompanyID: u.CompanyID,
	}
}
