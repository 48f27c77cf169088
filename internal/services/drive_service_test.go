package services

import (
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) driveService() DriveService {
	return NewDriveService(w.students, w.drives, w.participations, w.applications)
}

func TestListEligible_PagesInMemory(t *testing.T) {
	w := newWorld(t)
	for i := 0; i < 3; i++ {
		w.activeDrive(t, models.EligibilityCriteria{})
	}
	w.activeDrive(t, models.EligibilityCriteria{MinCGPA: testutil.Float(9.5)})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{CGPA: 8})
	svc := w.driveService()

	first, err := svc.ListEligible(w.db, student.UserID, dto.PageQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first.Data, 2)
	assert.EqualValues(t, 3, first.Pagination.TotalItems)
	assert.True(t, first.Pagination.HasNextPage)

	second, err := svc.ListEligible(w.db, student.UserID, dto.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, second.Data, 1)
}

func TestListEligible_HugePageIsEmpty(t *testing.T) {
	w := newWorld(t)
	w.activeDrive(t, models.EligibilityCriteria{})
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{CGPA: 8})
	svc := w.driveService()

	for _, page := range []int{1e18, maxPage, maxPage + 1} {
		var resp *dto.PaginatedResponse
		require.NotPanics(t, func() {
			var err error
			resp, err = svc.ListEligible(w.db, student.UserID, dto.PageQuery{Page: page, Limit: 10})
			require.NoError(t, err)
		})
		assert.Empty(t, resp.Data)
		assert.EqualValues(t, 1, resp.Pagination.TotalItems)
		assert.False(t, resp.Pagination.HasNextPage)
	}
}
