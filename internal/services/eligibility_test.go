package services

import (
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateEligibility_CriteriaTable(t *testing.T) {
	drive := &models.Drive{
		Status: models.DriveStatusActive,
		Criteria: models.EligibilityCriteria{
			MinCGPA:         testutil.Float(7.5),
			AllowedBranches: models.StringList{"CSE"},
			Batch:           testutil.String("2024"),
		},
	}
	accepted := &models.DriveCollege{CollegeID: "c1", ParticipationStatus: models.ParticipationAccepted}

	tests := []struct {
		name    string
		student models.Student
		want    EligibilityResult
	}{
		{
			name:    "meets every criterion",
			student: models.Student{CollegeID: "c1", CGPA: 8.0, Branch: "CSE", Batch: "2024"},
			want:    EligibilityResult{Eligible: true},
		},
		{
			name:    "cgpa below minimum",
			student: models.Student{CollegeID: "c1", CGPA: 7.0, Branch: "CSE", Batch: "2024"},
			want:    EligibilityResult{Reason: ReasonCGPABelowMinimum},
		},
		{
			name:    "branch not allowed",
			student: models.Student{CollegeID: "c1", CGPA: 8.0, Branch: "ECE", Batch: "2024"},
			want:    EligibilityResult{Reason: ReasonBranchNotAllowed},
		},
		{
			name:    "wrong batch",
			student: models.Student{CollegeID: "c1", CGPA: 9.0, Branch: "CSE", Batch: "2025"},
			want:    EligibilityResult{Reason: ReasonBatchNotEligible},
		},
		{
			name:    "cgpa exactly at minimum",
			student: models.Student{CollegeID: "c1", CGPA: 7.5, Branch: "CSE", Batch: "2024"},
			want:    EligibilityResult{Eligible: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateEligibility(&tt.student, drive, accepted)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateEligibility_Gates(t *testing.T) {
	student := &models.Student{CollegeID: "c1", CGPA: 9.0, Branch: "CSE", Batch: "2024"}
	active := &models.Drive{Status: models.DriveStatusActive}

	t.Run("inactive drive", func(t *testing.T) {
		drive := &models.Drive{Status: models.DriveStatusDraft}
		dc := &models.DriveCollege{CollegeID: "c1", ParticipationStatus: models.ParticipationAccepted}
		assert.Equal(t, ReasonDriveNotActive, EvaluateEligibility(student, drive, dc).Reason)
	})

	t.Run("no participation", func(t *testing.T) {
		assert.Equal(t, ReasonNotParticipating, EvaluateEligibility(student, active, nil).Reason)
	})

	t.Run("invited but not accepted", func(t *testing.T) {
		dc := &models.DriveCollege{CollegeID: "c1", ParticipationStatus: models.ParticipationInvited}
		assert.Equal(t, ReasonNotParticipating, EvaluateEligibility(student, active, dc).Reason)
	})

	t.Run("participation of another college", func(t *testing.T) {
		dc := &models.DriveCollege{CollegeID: "c2", ParticipationStatus: models.ParticipationAccepted}
		assert.Equal(t, ReasonNotParticipating, EvaluateEligibility(student, active, dc).Reason)
	})

	t.Run("empty criteria admit everyone", func(t *testing.T) {
		dc := &models.DriveCollege{CollegeID: "c1", ParticipationStatus: models.ParticipationAccepted}
		weak := &models.Student{CollegeID: "c1", CGPA: 0, Branch: "MECH", Batch: "1999"}
		assert.True(t, EvaluateEligibility(weak, active, dc).Eligible)
	})
}

func TestCriteriaFailure_ZeroMinimumIsAFloor(t *testing.T) {
	zero := models.EligibilityCriteria{MinCGPA: testutil.Float(0)}

	assert.Empty(t, criteriaFailure(&models.Student{CGPA: 0}, zero))
	assert.Equal(t, ReasonCGPABelowMinimum, criteriaFailure(&models.Student{CGPA: -0.5}, zero))
	assert.Empty(t, criteriaFailure(&models.Student{CGPA: -0.5}, models.EligibilityCriteria{}))
}

func TestCriteriaFailure_EmptyBatchIsNoConstraint(t *testing.T) {
	c := models.EligibilityCriteria{Batch: testutil.String("")}
	assert.Empty(t, criteriaFailure(&models.Student{Batch: "2030"}, c))
}
