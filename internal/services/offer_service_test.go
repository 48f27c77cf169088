package services

import (
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/internal/testutil"
	"hireflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueOffer(t *testing.T, w *world, drive *models.Drive, student *models.Student) *models.Offer {
	t.Helper()
	app := testutil.CreateApplication(t, w.db, student, drive.ID, models.StatusFinal)
	res, err := w.recruitmentService().IssueOffers(w.db, w.companyUser.ID, drive.ID, &dto.IssueOffersRequest{
		ApplicationIDs:   []string{app.ID},
		OfferLetterLinks: dto.LinkList{"https://cdn/offer.pdf"},
	})
	require.NoError(t, err)
	require.Len(t, res.Offers, 1)
	return &res.Offers[0]
}

func TestAcknowledge_AcceptMovesApplicationToAccepted(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Asha"})
	offer := issueOffer(t, w, drive, student)

	got, err := w.offerService().Acknowledge(w.db, student.UserID, offer.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAcknowledged, got.Status)
	assert.NotNil(t, got.AcknowledgedAt)

	assert.Equal(t, models.StatusAccepted, w.statusOf(t, offer.ApplicationID))
	assert.Equal(t, models.StatusAccepted, testutil.LastTimelineStatus(t, w.db, offer.ApplicationID))

	// компании уходит in-app и email
	assert.Len(t, w.notificationsFor(t, w.companyUser.ID), 2)

	_, err = w.offerService().Acknowledge(w.db, student.UserID, offer.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrOfferNotIssued)
}

func TestAcknowledge_DeclineMovesApplicationToRejected(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{})
	offer := issueOffer(t, w, drive, student)

	got, err := w.offerService().Acknowledge(w.db, student.UserID, offer.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, got.Status)
	assert.Equal(t, models.StatusRejected, w.statusOf(t, offer.ApplicationID))
}

func TestAcknowledge_OtherStudentsOfferIsNotFound(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	owner := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Owner"})
	other := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Other"})
	offer := issueOffer(t, w, drive, owner)

	_, err := w.offerService().Acknowledge(w.db, other.UserID, offer.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrOfferNotFound)
	assert.Equal(t, models.StatusOffered, w.statusOf(t, offer.ApplicationID))
}

func TestListMine_Offers(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{})
	issueOffer(t, w, drive, student)

	resp, err := w.offerService().ListMine(w.db, student.UserID, dto.PageQuery{})
	require.NoError(t, err)

	offers := resp.Data.([]models.Offer)
	require.Len(t, offers, 1)
	require.NotNil(t, offers[0].Application)
	require.NotNil(t, offers[0].Application.Drive)
	assert.Equal(t, drive.Role, offers[0].Application.Drive.Role)
}
