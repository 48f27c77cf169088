package dto

import (
	"time"

	"hireflow_backend/internal/models"
)

type CompanyStats struct {
	TotalDrives       int64 `json:"totalDrives"`
	ActiveDrives      int64 `json:"activeDrives"`
	TotalApplications int64 `json:"totalApplications"`
	OfferedCount      int64 `json:"offeredCount"`
}

type CompanyDashboard struct {
	Company *models.Company `json:"company"`
	Stats   CompanyStats    `json:"stats"`
}

type SchedulingInfoInput struct {
	Venue string           `json:"venue,omitempty"`
	Link  string           `json:"link,omitempty" validate:"omitempty,url"`
	Date  *time.Time       `json:"date,omitempty"`
	Mode  models.RoundMode `json:"mode,omitempty" validate:"omitempty,is-round-mode"`
}

type RoundInput struct {
	Title          string               `json:"title" validate:"required"`
	Type           models.RoundType     `json:"type" validate:"required,is-round-type"`
	SchedulingInfo *SchedulingInfoInput `json:"schedulingInfo,omitempty"`
}

type CriteriaInput struct {
	MinCGPA         *float64 `json:"minCGPA,omitempty" validate:"omitempty,gte=0,lte=10"`
	AllowedBranches []string `json:"allowedBranches,omitempty"`
	Batch           *string  `json:"batch,omitempty"`
}

type CreateDriveRequest struct {
	Role                string           `json:"role" validate:"required"`
	CTC                 *float64         `json:"ctc,omitempty" validate:"omitempty,gte=0"`
	Stipend             *float64         `json:"stipend,omitempty" validate:"omitempty,gte=0"`
	Mode                models.DriveMode `json:"mode,omitempty" validate:"omitempty,is-drive-mode"`
	RoundStructure      []RoundInput     `json:"roundStructure,omitempty" validate:"omitempty,dive"`
	EligibilityCriteria *CriteriaInput   `json:"eligibilityCriteria,omitempty"`
	BrochureLink        string           `json:"brochureLink,omitempty" validate:"omitempty,url"`
	// CollegeIDs - сразу пригласить колледжи
	CollegeIDs []string `json:"collegeIds,omitempty" validate:"omitempty,dive,uuid"`
}

// UpdateDriveRequest - nil поля не меняются
type UpdateDriveRequest struct {
	Role                *string             `json:"role,omitempty" validate:"omitempty,min=1"`
	CTC                 *float64            `json:"ctc,omitempty" validate:"omitempty,gte=0"`
	Stipend             *float64            `json:"stipend,omitempty" validate:"omitempty,gte=0"`
	Mode                *models.DriveMode   `json:"mode,omitempty" validate:"omitempty,is-drive-mode"`
	RoundStructure      []RoundInput        `json:"roundStructure,omitempty" validate:"omitempty,dive"`
	EligibilityCriteria *CriteriaInput      `json:"eligibilityCriteria,omitempty"`
	Status              *models.DriveStatus `json:"status,omitempty" validate:"omitempty,is-drive-status"`
	BrochureLink        *string             `json:"brochureLink,omitempty" validate:"omitempty,url"`
}

// DriveDetail - drive компании с приглашенными колледжами
type DriveDetail struct {
	models.Drive
	InvitedColleges []models.DriveCollege `json:"invitedColleges"`
}

type InviteCollegesRequest struct {
	CollegeIDs []string `json:"collegeIds" validate:"required,min=1,dive,uuid"`
}

type InviteResult struct {
	InvitedCount int `json:"invitedCount"`
}

type ScheduleRoundRequest struct {
	DriveID    string           `json:"driveId" validate:"required,uuid"`
	RoundIndex *int             `json:"roundIndex" validate:"required,gte=0"`
	Date       *time.Time       `json:"date,omitempty"`
	Venue      string           `json:"venue,omitempty"`
	Link       string           `json:"link,omitempty" validate:"omitempty,url"`
	Mode       models.RoundMode `json:"mode,omitempty" validate:"omitempty,is-round-mode"`
}

type ScheduleRoundResponse struct {
	Round         models.Round `json:"round"`
	NotifiedCount int          `json:"notifiedCount"`
}
