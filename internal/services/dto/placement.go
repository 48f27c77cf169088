package dto

import "hireflow_backend/internal/models"

type ConfirmPlacementRequest struct {
	ApplicationID string               `json:"applicationId" validate:"required,uuid"`
	JoiningStatus models.JoiningStatus `json:"joiningStatus" validate:"required,is-joining-status"`
}
