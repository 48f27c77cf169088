package notify_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/notify/mocks"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	repo       repositories.NotificationRepository
	sender     *mocks.MockSender
	pusher     *mocks.MockPusher
	registry   *prometheus.Registry
	dispatcher *notify.Dispatcher
	user       *models.User
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	return newFixtureWith(t, notify.Options{Workers: 1, MaxAttempts: maxAttempts, RetryBase: time.Second})
}

func newFixtureWith(t *testing.T, opts notify.Options) *fixture {
	db := testutil.NewDB(t)
	tm, err := email.NewTemplateManager()
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		repo:     repositories.NewNotificationRepository(),
		sender:   new(mocks.MockSender),
		pusher:   new(mocks.MockPusher),
		registry: prometheus.NewRegistry(),
	}
	f.dispatcher = notify.NewDispatcher(db, f.repo, repositories.NewUserRepository(),
		f.sender, tm, f.pusher, notify.NewMetrics(f.registry), opts)
	f.user = testutil.CreateUser(t, db, models.UserRoleStudent, "asha@college.edu", "")
	return f
}

func (f *fixture) insert(t *testing.T, channel models.NotificationChannel) *models.Notification {
	n := models.Notification{
		UserID:         f.user.ID,
		Channel:        channel,
		Type:           models.NotificationCritical,
		Title:          "Offer issued",
		Message:        "You have an offer",
		Payload:        notify.Payload{Template: email.TemplateOfferIssued, Link: "https://x/offer.pdf"}.JSON(),
		DeliveryStatus: models.DeliveryPending,
	}
	require.NoError(t, f.repo.CreateBatch(f.db, []models.Notification{n}))

	var stored models.Notification
	require.NoError(t, f.db.Where("user_id = ? AND channel = ?", f.user.ID, channel).First(&stored).Error)
	return &stored
}

func (f *fixture) reload(t *testing.T, id string) *models.Notification {
	n, err := f.repo.FindByID(f.db, id)
	require.NoError(t, err)
	return n
}

func TestDispatcher_EmailSent(t *testing.T) {
	f := newFixture(t, 3)
	n := f.insert(t, models.ChannelEmail)

	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(msg *email.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == "asha@college.edu" && msg.Subject == "Offer issued"
	})).Return(nil).Once()

	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))

	got := f.reload(t, n.ID)
	assert.Equal(t, models.DeliverySent, got.DeliveryStatus)
	assert.NotNil(t, got.SentAt)
	expected := `
# HELP hireflow_notifications_total Notification delivery attempts by channel and result.
# TYPE hireflow_notifications_total counter
hireflow_notifications_total{channel="email",result="sent"} 1
`
	assert.NoError(t, promtest.GatherAndCompare(f.registry, strings.NewReader(expected), "hireflow_notifications_total"))
	f.sender.AssertExpectations(t)
}

func TestDispatcher_EmailRetryThenFail(t *testing.T) {
	f := newFixture(t, 2)
	n := f.insert(t, models.ChannelEmail)

	f.sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))
	got := f.reload(t, n.ID)
	assert.Equal(t, models.DeliveryPending, got.DeliveryStatus)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "smtp down", got.LastError)
	require.NotNil(t, got.NextAttemptAt)
	assert.True(t, got.NextAttemptAt.After(time.Now()))

	// до next_attempt_at строка не отправляется
	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))
	f.sender.AssertNumberOfCalls(t, "Send", 1)

	f.makeDue(t, n.ID)
	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))
	got = f.reload(t, n.ID)
	assert.Equal(t, models.DeliveryFailed, got.DeliveryStatus)
	assert.Equal(t, 2, got.Attempts)
	assert.Nil(t, got.NextAttemptAt)

	// failed строки больше не отправляются
	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))
	f.sender.AssertNumberOfCalls(t, "Send", 2)
}

func (f *fixture) makeDue(t *testing.T, id string) {
	past := time.Now().Add(-time.Second)
	require.NoError(t, f.db.Model(&models.Notification{}).Where("id = ?", id).Update("next_attempt_at", past).Error)
}

func TestDispatcher_DuplicateIDsSendOnce(t *testing.T) {
	f := newFixtureWith(t, notify.Options{Workers: 2, MaxAttempts: 3, RetryBase: time.Second})
	n := f.insert(t, models.ChannelEmail)

	f.sender.On("Send", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(200 * time.Millisecond) }).
		Return(nil)

	// тот же id приходит и от бизнес-кода, и от RetryWorker
	f.dispatcher.Enqueue(n.ID, n.ID)

	ctx, cancel := context.WithCancel(context.Background())
	f.dispatcher.Start(ctx)
	require.Eventually(t, func() bool {
		return f.reload(t, n.ID).DeliveryStatus == models.DeliverySent
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	cancel()
	f.dispatcher.Wait()

	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestDispatcher_ExpiredLeaseIsReclaimed(t *testing.T) {
	f := newFixture(t, 3)
	n := f.insert(t, models.ChannelEmail)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	// воркер захватил строку и упал, не дойдя до отправки
	future := time.Now().Add(time.Hour)
	require.NoError(t, f.db.Model(&models.Notification{}).Where("id = ?", n.ID).
		Updates(map[string]interface{}{"delivery_status": models.DeliverySending, "next_attempt_at": future}).Error)

	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	f.makeDue(t, n.ID)
	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))
	assert.Equal(t, models.DeliverySent, f.reload(t, n.ID).DeliveryStatus)
	f.sender.AssertExpectations(t)
}

func TestDispatcher_InAppPush(t *testing.T) {
	f := newFixture(t, 3)
	n := f.insert(t, models.ChannelInApp)

	f.pusher.On("PushToUser", f.user.ID, mock.Anything).Return(false).Once()

	require.NoError(t, f.dispatcher.Deliver(context.Background(), n.ID))

	got := f.reload(t, n.ID)
	assert.Equal(t, models.DeliverySent, got.DeliveryStatus)
	f.pusher.AssertExpectations(t)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, notify.Backoff(time.Second, 1))
	assert.Equal(t, 8*time.Second, notify.Backoff(time.Second, 3))
}
