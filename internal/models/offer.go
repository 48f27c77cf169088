package models

import "time"

type Offer struct {
	BaseModel
	ApplicationID   string      `gorm:"type:uuid;not null;uniqueIndex" json:"applicationId"`
	OfferLetterLink string      `gorm:"not null" json:"offerLetterLink"`
	IssuedAt        time.Time   `gorm:"not null" json:"issuedAt"`
	AcknowledgedAt  *time.Time  `json:"acknowledgedAt,omitempty"`
	Status          OfferStatus `gorm:"type:varchar(20);not null;default:'issued'" json:"status"`

	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}
