package dto

import "hireflow_backend/internal/models"

type CollegeStats struct {
	TotalStudents    int64 `json:"totalStudents"`
	VerifiedStudents int64 `json:"verifiedStudents"`
	InvitedDrives    int64 `json:"invitedDrives"`
	AcceptedDrives   int64 `json:"acceptedDrives"`
	Placements       int64 `json:"placements"`
}

type CollegeDashboard struct {
	College *models.College `json:"college"`
	Stats   CollegeStats    `json:"stats"`
}

// StudentListQuery - verified: "true"/"false", пусто - все
type StudentListQuery struct {
	Verified *bool  `form:"verified"`
	Search   string `form:"search"`
}

// CollegeUpdateStudentRequest - TPO правит академические данные
type CollegeUpdateStudentRequest struct {
	Name   *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Branch *string  `json:"branch,omitempty" validate:"omitempty,min=1"`
	Batch  *string  `json:"batch,omitempty" validate:"omitempty,min=1"`
	CGPA   *float64 `json:"cgpa,omitempty" validate:"omitempty,gte=0,lte=10"`
}

type VerifyStudentRequest struct {
	// nil - верифицировать
	Verified *bool `json:"verified,omitempty"`
}

type RespondInvitationRequest struct {
	Action string `json:"action" validate:"required,is-participation-action"`
}

type PushResult struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}
