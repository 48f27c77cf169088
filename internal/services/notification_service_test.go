package services

import (
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	ids []string
}

func (q *recordingQueue) Enqueue(ids ...string) {
	q.ids = append(q.ids, ids...)
}

func TestNotificationService_EnqueueStoresRowsAndHandsOffIDs(t *testing.T) {
	w := newWorld(t)
	queue := &recordingQueue{}
	svc := NewNotificationService(repositories.NewNotificationRepository(), queue)

	n := notice{
		UserIDs:  []string{w.collegeUser.ID, w.companyUser.ID},
		Channels: inAppAndEmail,
		Type:     models.NotificationCritical,
		Title:    "Shortlisted",
		Message:  "You have been shortlisted",
	}
	svc.Enqueue(w.db, n.rows())

	require.Len(t, queue.ids, 4)
	stored := w.notificationsFor(t, w.collegeUser.ID)
	require.Len(t, stored, 2)
	for _, row := range stored {
		assert.Equal(t, models.DeliveryPending, row.DeliveryStatus)
		assert.Contains(t, queue.ids, row.ID)
	}
}

func TestNotificationService_SeenIsScopedToOwner(t *testing.T) {
	w := newWorld(t)
	svc := w.notifications

	rows := notice{
		UserIDs:  []string{w.collegeUser.ID},
		Channels: inAppOnly,
		Type:     models.NotificationInformational,
		Title:    "Invited",
		Message:  "New drive invitation",
	}.rows()
	rows = append(rows, rows[0])
	svc.Enqueue(w.db, rows)
	stored := w.notificationsFor(t, w.collegeUser.ID)
	require.Len(t, stored, 2)

	err := svc.MarkSeen(w.db, w.companyUser.ID, stored[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)

	require.NoError(t, svc.MarkSeen(w.db, w.collegeUser.ID, stored[0].ID))

	res, err := svc.MarkAllSeen(w.db, w.collegeUser.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Updated)

	page, err := svc.List(w.db, w.collegeUser.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.TotalItems)
}
