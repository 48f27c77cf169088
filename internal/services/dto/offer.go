package dto

type AcknowledgeOfferRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}
