package services

import (
	"bytes"
	"strings"
	"testing"

	"hireflow_backend/internal/export"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/internal/testutil"
	"hireflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDrive_WithInvites(t *testing.T) {
	w := newWorld(t)

	detail, err := w.companyService().CreateDrive(w.db, w.companyUser.ID, &dto.CreateDriveRequest{
		Role: "Backend Engineer",
		RoundStructure: []dto.RoundInput{
			{Title: "Aptitude", Type: models.RoundTypeTest},
			{Title: "HR", Type: models.RoundTypeHR},
		},
		EligibilityCriteria: &dto.CriteriaInput{MinCGPA: testutil.Float(0), AllowedBranches: []string{"CSE"}},
		CollegeIDs:          []string{w.college.ID, w.college.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, models.DriveStatusDraft, detail.Status)
	assert.Equal(t, models.DriveModeOnCampus, detail.Mode)
	require.Len(t, detail.RoundStructure, 2)
	assert.Equal(t, 1, detail.RoundStructure[1].Index)
	require.NotNil(t, detail.Criteria.MinCGPA)
	assert.Equal(t, 0.0, *detail.Criteria.MinCGPA)
	require.Len(t, detail.InvitedColleges, 1)
	assert.Equal(t, models.ParticipationInvited, detail.InvitedColleges[0].ParticipationStatus)

	assert.Len(t, w.notificationsFor(t, w.collegeUser.ID), 1)

	stored, err := w.drives.FindByID(w.db, detail.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Criteria.MinCGPA)
	assert.Equal(t, models.StringList{"CSE"}, stored.Criteria.AllowedBranches)
}

func TestInviteColleges_SkipsExisting(t *testing.T) {
	w := newWorld(t)
	drive := testutil.CreateDrive(t, w.db, w.company.ID, testutil.DriveOpts{})
	testutil.CreateParticipation(t, w.db, drive.ID, w.college.ID, models.ParticipationAccepted)
	svc := w.companyService()

	res, err := svc.InviteColleges(w.db, w.companyUser.ID, drive.ID, []string{w.college.ID, w.otherCollege.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.InvitedCount)

	_, err = svc.InviteColleges(w.db, w.companyUser.ID, drive.ID, []string{w.college.ID, w.otherCollege.ID})
	assert.ErrorIs(t, err, apperrors.ErrAllCollegesInvited)

	_, err = svc.InviteColleges(w.db, w.otherCompanyUser.ID, drive.ID, []string{w.college.ID})
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)
}

func TestGetDrive_CrossTenantIsNotFound(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})

	detail, err := w.companyService().GetDrive(w.db, w.companyUser.ID, drive.ID)
	require.NoError(t, err)
	assert.Len(t, detail.InvitedColleges, 1)

	_, err = w.companyService().GetDrive(w.db, w.otherCompanyUser.ID, drive.ID)
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)

	_, err = w.companyService().UpdateDrive(w.db, w.otherCompanyUser.ID, drive.ID, &dto.UpdateDriveRequest{Role: testutil.String("x")})
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)
}

func TestUpdateDrive_PartialChanges(t *testing.T) {
	w := newWorld(t)
	drive := testutil.CreateDrive(t, w.db, w.company.ID, testutil.DriveOpts{Status: models.DriveStatusDraft})
	active := models.DriveStatusActive

	got, err := w.companyService().UpdateDrive(w.db, w.companyUser.ID, drive.ID, &dto.UpdateDriveRequest{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, models.DriveStatusActive, got.Status)
	assert.Equal(t, drive.Role, got.Role)
}

func TestListApplicants_Filters(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	testutil.CreateParticipation(t, w.db, drive.ID, w.otherCollege.ID, models.ParticipationAccepted)
	testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "A"}), drive.ID, models.StatusApplied)
	testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "B"}), drive.ID, models.StatusShortlisted)
	testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.otherCollege.ID, testutil.StudentOpts{Name: "C"}), drive.ID, models.StatusShortlisted)
	svc := w.companyService()

	all, err := svc.ListApplicants(w.db, w.companyUser.ID, drive.ID, dto.ApplicantQuery{}, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.TotalItems)

	filtered, err := svc.ListApplicants(w.db, w.companyUser.ID, drive.ID,
		dto.ApplicantQuery{CollegeID: w.college.ID, Status: models.StatusShortlisted}, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.Pagination.TotalItems)
}

func TestExportSelected_OfferedAndAccepted(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	offered := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Offered", CGPA: 9})
	testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Pending"})
	issueOffer(t, w, drive, offered)
	testutil.CreateApplication(t, w.db, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Final"}), drive.ID, models.StatusFinal)

	table, err := w.companyService().ExportSelected(w.db, w.companyUser.ID, drive.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, *table))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Email,Branch,Batch,CGPA,College,Offer Status,Acknowledged", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Offered",`))
	assert.True(t, strings.HasSuffix(lines[1], `"Pune Institute","issued","No"`))
}

func TestCompanyDashboard_Counts(t *testing.T) {
	w := newWorld(t)
	drive := w.activeDrive(t, models.EligibilityCriteria{})
	testutil.CreateDrive(t, w.db, w.company.ID, testutil.DriveOpts{Status: models.DriveStatusDraft})
	testutil.CreateDrive(t, w.db, w.otherCompany.ID, testutil.DriveOpts{})
	issueOffer(t, w, drive, testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{}))

	dash, err := w.companyService().Dashboard(w.db, w.companyUser.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.CompanyStats{TotalDrives: 2, ActiveDrives: 1, TotalApplications: 1, OfferedCount: 1}, dash.Stats)
}
