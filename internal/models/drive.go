package models

import (
	"time"

	"gorm.io/datatypes"
)

// SchedulingInfo - место и время проведения раунда
type SchedulingInfo struct {
	Venue string     `json:"venue,omitempty"`
	Link  string     `json:"link,omitempty"`
	Date  *time.Time `json:"date,omitempty"`
	Mode  RoundMode  `json:"mode,omitempty"`
}

// Round - этап отбора в drive
type Round struct {
	Index          int             `json:"index"`
	Title          string          `json:"title"`
	Type           RoundType       `json:"type"`
	SchedulingInfo *SchedulingInfo `json:"schedulingInfo,omitempty"`
}

// EligibilityCriteria - критерии допуска. nil означает "ограничения нет";
// MinCGPA = 0 - это заданный порог, а не его отсутствие.
type EligibilityCriteria struct {
	MinCGPA         *float64   `gorm:"column:min_cgpa" json:"minCGPA,omitempty"`
	AllowedBranches StringList `gorm:"column:allowed_branches" json:"allowedBranches"`
	Batch           *string    `gorm:"column:batch" json:"batch,omitempty"`
}

// HasBatch - пустая строка трактуется как отсутствие ограничения
func (c EligibilityCriteria) HasBatch() bool {
	return c.Batch != nil && *c.Batch != ""
}

type Drive struct {
	BaseModel
	CompanyID      string                     `gorm:"type:uuid;not null;index" json:"companyId"`
	Role           string                     `gorm:"not null" json:"role"`
	CTC            *float64                   `gorm:"column:ctc" json:"ctc,omitempty"`
	Stipend        *float64                   `json:"stipend,omitempty"`
	Mode           DriveMode                  `gorm:"type:varchar(20);not null;default:'on-campus'" json:"mode"`
	RoundStructure datatypes.JSONSlice[Round] `json:"roundStructure"`
	Criteria       EligibilityCriteria        `gorm:"embedded;embeddedPrefix:criteria_" json:"eligibilityCriteria"`
	Status         DriveStatus                `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	BrochureLink   string                     `json:"brochureLink,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (d *Drive) IsActive() bool {
	return d.Status == DriveStatusActive
}

// DriveCollege - приглашение колледжа на drive и его ответ
type DriveCollege struct {
	BaseModel
	DriveID             string              `gorm:"type:uuid;not null;uniqueIndex:idx_drive_college" json:"driveId"`
	CollegeID           string              `gorm:"type:uuid;not null;uniqueIndex:idx_drive_college;index" json:"collegeId"`
	ParticipationStatus ParticipationStatus `gorm:"type:varchar(20);not null;default:'Invited'" json:"participationStatus"`
	InvitedAt           time.Time           `gorm:"not null" json:"invitedAt"`
	RespondedAt         *time.Time          `json:"respondedAt,omitempty"`

	Drive   *Drive   `gorm:"foreignKey:DriveID" json:"drive,omitempty"`
	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

func (DriveCollege) TableName() string {
	return "drive_colleges"
}

func (dc *DriveCollege) IsAccepted() bool {
	return dc != nil && dc.ParticipationStatus == ParticipationAccepted
}
