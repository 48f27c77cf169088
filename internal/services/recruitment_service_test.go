package services

import (
	"testing"
	"time"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/internal/testutil"
	"hireflow_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAdvanceRound_SecondRoundAppendsTimeline(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{},
		models.Round{Index: 0, Title: "Aptitude", Type: models.RoundTypeTest},
		models.Round{Index: 1, Title: "Technical", Type: models.RoundTypeTechnical},
	)
	a := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "A"}), drive.ID, models.StatusRound1)
	b := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "B"}), drive.ID, models.StatusRound1)

	res, err := w.recruitmentService().AdvanceRound(w.db, w.companyUser.ID, drive.ID, &dto.AdvanceRoundRequest{
		ApplicationIDs: []string{a.ID, b.ID},
		RoundIndex:     intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.ModifiedCount)

	for _, id := range []string{a.ID, b.ID} {
		assert.Equal(t, models.StatusRound2, w.statusOf(t, id))
		timeline := w.timeline(t, id)
		require.Len(t, timeline, 2)
		assert.Equal(t, models.StatusRound2, timeline[1].Status)
		assert.Equal(t, models.ActorCompany, timeline[1].UpdatedBy)
	}
}

func TestAdvanceRound_IndexOutsideRoundStructure(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{}, models.Round{Index: 0, Title: "HR", Type: models.RoundTypeHR})
	app := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{}), drive.ID, models.StatusShortlisted)

	_, err := w.recruitmentService().AdvanceRound(w.db, w.companyUser.ID, drive.ID, &dto.AdvanceRoundRequest{
		ApplicationIDs: []string{app.ID},
		RoundIndex:     intPtr(1),
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, models.StatusShortlisted, w.statusOf(t, app.ID))
}

func TestAdvanceRound_DriveWithoutRoundsKeepsMapping(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	app := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{}), drive.ID, models.StatusShortlisted)

	_, err := w.recruitmentService().AdvanceRound(w.db, w.companyUser.ID, drive.ID, &dto.AdvanceRoundRequest{
		ApplicationIDs: []string{app.ID},
		RoundIndex:     intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinal, w.statusOf(t, app.ID))
}

func TestShortlist_SkipsForeignIDsAndDefaultsStatus(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	otherDrive := w.activeDrive(t, models.EligibilityCriteria{})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Asha"})
	mine := testutil.CreateApplication(t, w.db, student, drive.ID, models.StatusEligible)
	foreign := testutil.CreateApplication(t, w.db, student, otherDrive.ID, models.StatusEligible)

	res, err := w.recruitmentService().Shortlist(w.db, w.companyUser.ID, drive.ID, &dto.ShortlistRequest{
		ApplicationIDs: []string{mine.ID, foreign.ID, uuid.NewString()},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)
	assert.Equal(t, models.StatusShortlisted, w.statusOf(t, mine.ID))
	assert.Equal(t, models.StatusEligible, w.statusOf(t, foreign.ID))

	// in-app и email
	assert.Len(t, w.notificationsFor(t, student.UserID), 2)
}

func TestShortlist_OtherCompanyDriveIsNotFound(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	app := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{}), drive.ID, models.StatusApplied)

	_, err := w.recruitmentService().Shortlist(w.db, w.otherCompanyUser.ID, drive.ID, &dto.ShortlistRequest{
		ApplicationIDs: []string{app.ID},
	})
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)
	assert.Equal(t, models.StatusApplied, w.statusOf(t, app.ID))
}

func TestIssueOffers_PositionalLinks(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	a := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "A"}), drive.ID, models.StatusFinal)
	b := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "B"}), drive.ID, models.StatusFinal)

	res, err := w.recruitmentService().IssueOffers(w.db, w.companyUser.ID, drive.ID, &dto.IssueOffersRequest{
		ApplicationIDs:   []string{a.ID, b.ID},
		OfferLetterLinks: dto.LinkList{"https://cdn/L1.pdf", "https://cdn/L2.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.ModifiedCount)

	offerA, err := w.offers.FindByApplicationID(w.db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/L1.pdf", offerA.OfferLetterLink)
	assert.Equal(t, models.OfferStatusIssued, offerA.Status)

	offerB, err := w.offers.FindByApplicationID(w.db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/L2.pdf", offerB.OfferLetterLink)

	assert.Equal(t, models.StatusOffered, w.statusOf(t, a.ID))
	assert.Equal(t, models.StatusOffered, w.statusOf(t, b.ID))
}

func TestIssueOffers_ReissueAndTerminalSkip(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	offered := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "A"}), drive.ID, models.StatusFinal)
	rejected := testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "B"}), drive.ID, models.StatusRejected)
	svc := w.recruitmentService()

	_, err := svc.IssueOffers(w.db, w.companyUser.ID, drive.ID, &dto.IssueOffersRequest{
		ApplicationIDs:   []string{offered.ID},
		OfferLetterLinks: dto.LinkList{"https://cdn/v1.pdf"},
	})
	require.NoError(t, err)

	res, err := svc.IssueOffers(w.db, w.companyUser.ID, drive.ID, &dto.IssueOffersRequest{
		ApplicationIDs:   []string{offered.ID, rejected.ID},
		OfferLetterLinks: dto.LinkList{"https://cdn/v2.pdf", "https://cdn/x.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	offer, err := w.offers.FindByApplicationID(w.db, offered.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/v2.pdf", offer.OfferLetterLink)

	// FINAL, OFFERED, OFFERED
	assert.Len(t, w.timeline(t, offered.ID), 3)
	assert.Equal(t, models.StatusRejected, w.statusOf(t, rejected.ID))
	_, err = w.offers.FindByApplicationID(w.db, rejected.ID)
	assert.Error(t, err)
}

func TestIssueOffers_DuplicateIDKeepsFirstLink(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "A"})
	app := testutil.CreateApplication(t, w.db, student, drive.ID, models.StatusFinal)

	res, err := w.recruitmentService().IssueOffers(w.db, w.companyUser.ID, drive.ID, &dto.IssueOffersRequest{
		ApplicationIDs:   []string{app.ID, app.ID},
		OfferLetterLinks: dto.LinkList{"https://cdn/L1.pdf", "https://cdn/L2.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	offer, err := w.offers.FindByApplicationID(w.db, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/L1.pdf", offer.OfferLetterLink)

	// FINAL, OFFERED
	assert.Len(t, w.timeline(t, app.ID), 2)
	assert.Len(t, w.notificationsFor(t, student.UserID), len(inAppAndEmail))
}

func TestIssueOffers_LengthMismatch(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})

	_, err := w.recruitmentService().IssueOffers(w.db, w.companyUser.ID, drive.ID, &dto.IssueOffersRequest{
		ApplicationIDs:   []string{uuid.NewString(), uuid.NewString()},
		OfferLetterLinks: dto.LinkList{"https://cdn/only-one.pdf"},
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestScheduleRound_MergesAndNotifiesDistinctStudents(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{},
		models.Round{Index: 0, Title: "Interview", Type: models.RoundTypeInterview,
			SchedulingInfo: &models.SchedulingInfo{Venue: "Hall A"}},
	)
	s1 := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "A"})
	s2 := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "B"})
	testutil.CreateApplication(t, w.db, s1, drive.ID, models.StatusShortlisted)
	testutil.CreateApplication(t, w.db, s2, drive.ID, models.StatusShortlisted)

	date := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	res, err := w.recruitmentService().ScheduleRound(w.db, w.companyUser.ID, &dto.ScheduleRoundRequest{
		DriveID:    drive.ID,
		RoundIndex: intPtr(0),
		Date:       &date,
		Mode:       models.RoundModeOffline,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.NotifiedCount)
	require.NotNil(t, res.Round.SchedulingInfo)
	assert.Equal(t, "Hall A", res.Round.SchedulingInfo.Venue)
	assert.Equal(t, models.RoundModeOffline, res.Round.SchedulingInfo.Mode)

	stored, err := w.drives.FindByID(w.db, drive.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RoundStructure[0].SchedulingInfo.Date)
	assert.True(t, stored.RoundStructure[0].SchedulingInfo.Date.Equal(date))

	assert.Len(t, w.notificationsFor(t, s1.UserID), 2)

	_, err = w.recruitmentService().ScheduleRound(w.db, w.companyUser.ID, &dto.ScheduleRoundRequest{
		DriveID:    drive.ID,
		RoundIndex: intPtr(3),
	})
	assert.ErrorIs(t, err, apperrors.ErrRoundNotFound)
}
