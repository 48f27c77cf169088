package dto

import "hireflow_backend/internal/models"

type SubmitApplicationRequest struct {
	DriveID string `json:"driveId" validate:"required,uuid"`
}

// ApplicantQuery - фильтры списка кандидатов drive
type ApplicantQuery struct {
	CollegeID string                   `form:"collegeId" validate:"omitempty,uuid"`
	Status    models.ApplicationStatus `form:"status" validate:"omitempty,is-application-status"`
}

type ShortlistRequest struct {
	ApplicationIDs []string                 `json:"applicationIds" validate:"required,min=1,dive,uuid"`
	Status         models.ApplicationStatus `json:"status,omitempty" validate:"omitempty,is-application-status"`
}

type AdvanceRoundRequest struct {
	ApplicationIDs []string `json:"applicationIds" validate:"required,min=1,dive,uuid"`
	RoundIndex     *int     `json:"roundIndex" validate:"required,gte=0"`
}

// IssueOffersRequest - ссылки сопоставляются с заявками по позиции
type IssueOffersRequest struct {
	ApplicationIDs   []string  `json:"applicationIds" validate:"required,min=1,dive,uuid"`
	OfferLetterLinks LinkList `json:"offerLetterLinks" validate:"required,min=1,dive,required"`
}

type IssueOffersResponse struct {
	ModifiedCount int64          `json:"modifiedCount"`
	Offers        []models.Offer `json:"offers"`
}
