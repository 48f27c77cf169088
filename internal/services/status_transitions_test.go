package services

import (
	"testing"

	"hireflow_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRoundStatus(t *testing.T) {
	assert.Equal(t, models.StatusRound1, roundStatus(0))
	assert.Equal(t, models.StatusRound2, roundStatus(1))
	assert.Equal(t, models.StatusFinal, roundStatus(2))
	assert.Equal(t, models.StatusFinal, roundStatus(7))
}

func TestCanPushEligible(t *testing.T) {
	assert.True(t, canPushEligible(models.StatusApplied))
	for _, s := range []models.ApplicationStatus{
		models.StatusEligible, models.StatusShortlisted, models.StatusRound2,
		models.StatusOffered, models.StatusAccepted, models.StatusRejected,
	} {
		assert.False(t, canPushEligible(s), s)
	}
}

func TestCanOffer(t *testing.T) {
	for _, s := range []models.ApplicationStatus{
		models.StatusApplied, models.StatusShortlisted, models.StatusFinal, models.StatusOffered,
	} {
		assert.True(t, canOffer(s), s)
	}
	for _, s := range []models.ApplicationStatus{
		models.StatusAccepted, models.StatusRejected, models.StatusWithdrawn,
		models.StatusAbsent, models.StatusNoOffer, models.ApplicationStatus("BOGUS"),
	} {
		assert.False(t, canOffer(s), s)
	}
}

func TestAcknowledgeTarget(t *testing.T) {
	app, offer := acknowledgeTarget(true)
	assert.Equal(t, models.StatusAccepted, app)
	assert.Equal(t, models.OfferStatusAcknowledged, offer)

	app, offer = acknowledgeTarget(false)
	assert.Equal(t, models.StatusRejected, app)
	assert.Equal(t, models.OfferStatusRejected, offer)
}

func TestCanConfirmPlacement(t *testing.T) {
	assert.True(t, canConfirmPlacement(models.StatusOffered))
	assert.True(t, canConfirmPlacement(models.StatusAccepted))
	assert.False(t, canConfirmPlacement(models.StatusFinal))
	assert.False(t, canConfirmPlacement(models.StatusRejected))
}
