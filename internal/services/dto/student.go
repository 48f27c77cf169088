package dto

import "hireflow_backend/internal/models"

// UpdateStudentProfileRequest - пустые поля не меняются
type UpdateStudentProfileRequest struct {
	Name   *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Branch *string  `json:"branch,omitempty" validate:"omitempty,min=1"`
	Batch  *string  `json:"batch,omitempty" validate:"omitempty,min=1"`
	CGPA   *float64 `json:"cgpa,omitempty" validate:"omitempty,gte=0,lte=10"`
}

type UpdateResumeRequest struct {
	ResumeLink string `json:"resumeLink" validate:"required,url"`
}

type ResumeResponse struct {
	ResumeLink string `json:"resumeLink"`
}

// Eligibility - результат проверки критериев
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// StudentDrive - drive глазами студента: критерии + его заявка
type StudentDrive struct {
	models.Drive
	Eligibility       Eligibility               `json:"eligibility"`
	HasApplied        bool                      `json:"hasApplied"`
	ApplicationID     string                    `json:"applicationId,omitempty"`
	ApplicationStatus *models.ApplicationStatus `json:"applicationStatus,omitempty"`
}
