package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;index" json:"role"`

	// Заполняется только для ролей college и company
	CollegeID *string `gorm:"type:uuid;index" json:"collegeId,omitempty"`
	CompanyID *string `gorm:"type:uuid;index" json:"companyId,omitempty"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// RefreshToken хранит только sha256 от выданного токена
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
