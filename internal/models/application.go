package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Application struct {
	BaseModel
	StudentID   string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_drive" json:"studentId"`
	DriveID     string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_drive;index" json:"driveId"`
	CollegeID   string            `gorm:"type:uuid;not null;index" json:"collegeId"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SubmittedAt time.Time         `gorm:"not null" json:"submittedAt"`

	Timeline []TimelineEntry `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"timeline,omitempty"`
	Student  *Student        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Drive    *Drive          `gorm:"foreignKey:DriveID" json:"drive,omitempty"`
	College  *College        `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
	Offer    *Offer          `gorm:"foreignKey:ApplicationID" json:"offer,omitempty"`
}

// TimelineEntry - строка append-only истории статусов заявки.
// Position задает порядок; последняя запись всегда совпадает с Application.Status.
type TimelineEntry struct {
	ID            string            `gorm:"type:uuid;primaryKey" json:"-"`
	ApplicationID string            `gorm:"type:uuid;not null;uniqueIndex:idx_timeline_position" json:"-"`
	Position      int               `gorm:"not null;uniqueIndex:idx_timeline_position" json:"-"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null" json:"status"`
	UpdatedBy     Actor             `gorm:"type:varchar(20);not null" json:"updatedBy"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updatedAt"`
}

func (TimelineEntry) TableName() string {
	return "application_timeline"
}

func (e *TimelineEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
