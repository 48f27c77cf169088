package workers

import (
	"context"
	"slices"
	"testing"
	"time"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify/mocks"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationRetryWorker_RequeuesOnlyDueRows(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewNotificationRepository()
	user := testutil.CreateUser(t, db, models.UserRoleStudent, "s@college.edu", "")

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	rows := []models.Notification{
		{UserID: user.ID, Channel: models.ChannelEmail, Type: models.NotificationCritical, Title: "due", Message: "m", DeliveryStatus: models.DeliveryPending, NextAttemptAt: &past},
		{UserID: user.ID, Channel: models.ChannelEmail, Type: models.NotificationCritical, Title: "later", Message: "m", DeliveryStatus: models.DeliveryPending, NextAttemptAt: &future},
		{UserID: user.ID, Channel: models.ChannelInApp, Type: models.NotificationInformational, Title: "sent", Message: "m", DeliveryStatus: models.DeliverySent},
		{UserID: user.ID, Channel: models.ChannelEmail, Type: models.NotificationCritical, Title: "fresh", Message: "m", DeliveryStatus: models.DeliveryPending},
		{UserID: user.ID, Channel: models.ChannelEmail, Type: models.NotificationCritical, Title: "stuck", Message: "m", DeliveryStatus: models.DeliverySending, NextAttemptAt: &past},
		{UserID: user.ID, Channel: models.ChannelEmail, Type: models.NotificationCritical, Title: "sending", Message: "m", DeliveryStatus: models.DeliverySending, NextAttemptAt: &future},
	}
	require.NoError(t, repo.CreateBatch(db, rows))

	var due, stuck models.Notification
	require.NoError(t, db.Where("title = ?", "due").First(&due).Error)
	require.NoError(t, db.Where("title = ?", "stuck").First(&stuck).Error)

	queue := new(mocks.MockEnqueuer)
	queue.On("Enqueue", mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2 && slices.Contains(ids, due.ID) && slices.Contains(ids, stuck.ID)
	})).Return().Once()

	// fresh только что создана и уже в канале диспетчера
	w := NewNotificationRetryWorker(db, repo, queue, time.Minute)
	assert.Equal(t, 2, w.RunOnce(context.Background()))
	queue.AssertExpectations(t)
}

func TestNotificationRetryWorker_NothingDue(t *testing.T) {
	db := testutil.NewDB(t)
	queue := new(mocks.MockEnqueuer)

	w := NewNotificationRetryWorker(db, repositories.NewNotificationRepository(), queue, time.Minute)
	assert.Equal(t, 0, w.RunOnce(context.Background()))
	queue.AssertNotCalled(t, "Enqueue", mock.Anything)
}
