// Package notify доставляет уведомления из исходящей очереди (таблица notifications).
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"

	"gorm.io/gorm"
)

// Pusher доставляет in-app уведомление подключенному пользователю.
// false - пользователь сейчас не подключен.
type Pusher interface {
	PushToUser(userID string, payload []byte) bool
}

// Enqueuer принимает id строк, готовых к доставке
type Enqueuer interface {
	Enqueue(ids ...string)
}

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryBase   time.Duration
	// Lease - сколько строка считается занятой воркером, который ее отправляет
	Lease time.Duration
}

// Dispatcher читает id из канала и доставляет строки пулом воркеров.
// Неудачная попытка откладывает строку на RetryBase*2^attempts;
// повторную отправку в канал делает RetryWorker.
type Dispatcher struct {
	db        *gorm.DB
	repo      repositories.NotificationRepository
	users     repositories.UserRepository
	sender    email.Sender
	templates *email.TemplateManager
	pusher    Pusher
	metrics   *Metrics
	opts      Options

	queue chan string
	wg    sync.WaitGroup
	now   func() time.Time
}

func NewDispatcher(
	db *gorm.DB,
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	sender email.Sender,
	templates *email.TemplateManager,
	pusher Pusher,
	metrics *Metrics,
	opts Options,
) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 30 * time.Second
	}
	if opts.Lease <= 0 {
		opts.Lease = 5 * time.Minute
	}

	return &Dispatcher{
		db:        db,
		repo:      repo,
		users:     users,
		sender:    sender,
		templates: templates,
		pusher:    pusher,
		metrics:   metrics,
		opts:      opts,
		queue:     make(chan string, opts.QueueSize),
		now:       time.Now,
	}
}

// Start запускает воркеры; они завершаются после отмены ctx
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.run(ctx, i)
	}
	logger.Info("Notification dispatcher started", "workers", d.opts.Workers)
}

// Wait ждет завершения воркеров после отмены контекста
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue не блокирует: при переполненной очереди строка останется pending
// и будет подобрана RetryWorker.
func (d *Dispatcher) Enqueue(ids ...string) {
	for _, id := range ids {
		select {
		case d.queue <- id:
		default:
			d.metrics.observe("queue", ResultDropped)
			logger.Warn("Notification queue is full, deferring delivery", "notification_id", id)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, worker int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Notification worker stopped", "worker", worker)
			return
		case id := <-d.queue:
			if err := d.Deliver(ctx, id); err != nil {
				logger.WorkerLog("notify", "deliver", err, "notification_id", id)
			}
		}
	}
}

// Deliver выполняет одну попытку доставки строки.
// Один id может попасть в канал дважды (бизнес-код и RetryWorker),
// отправляет только тот воркер, который захватил строку.
func (d *Dispatcher) Deliver(ctx context.Context, id string) error {
	db := d.db.WithContext(ctx)
	now := d.now()
	claimed, err := d.repo.Claim(db, id, now, now.Add(d.opts.Lease))
	if err != nil || !claimed {
		return err
	}

	n, err := d.repo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil
		}
		return err
	}

	var sendErr error
	switch n.Channel {
	case models.ChannelEmail:
		sendErr = d.sendEmail(ctx, n)
	default:
		d.pushInApp(n)
	}

	if sendErr == nil {
		d.metrics.observe(string(n.Channel), ResultSent)
		return d.repo.MarkSent(d.db.WithContext(ctx), n.ID, d.now())
	}
	return d.scheduleRetry(ctx, n, sendErr)
}

func (d *Dispatcher) scheduleRetry(ctx context.Context, n *models.Notification, sendErr error) error {
	attempts := n.Attempts + 1
	db := d.db.WithContext(ctx)

	if attempts >= d.opts.MaxAttempts {
		d.metrics.observe(string(n.Channel), ResultFailed)
		logger.Warn("Notification delivery failed permanently",
			"notification_id", n.ID, "channel", n.Channel, "attempts", attempts, "error", sendErr.Error())
		return d.repo.MarkAttempt(db, n.ID, attempts, sendErr.Error(), models.DeliveryFailed, nil)
	}

	next := d.now().Add(Backoff(d.opts.RetryBase, attempts))
	d.metrics.observe(string(n.Channel), ResultRetry)
	logger.Debug("Notification delivery will be retried",
		"notification_id", n.ID, "attempts", attempts, "next_attempt_at", next)
	return d.repo.MarkAttempt(db, n.ID, attempts, sendErr.Error(), models.DeliveryPending, &next)
}

// Backoff = base * 2^attempts
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts > 16 {
		attempts = 16
	}
	return base * time.Duration(1<<uint(attempts))
}

func (d *Dispatcher) sendEmail(ctx context.Context, n *models.Notification) error {
	user, err := d.users.FindByID(d.db.WithContext(ctx), n.UserID)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	payload := decodePayload(n.Payload)
	html, err := d.templates.Render(payload.Template, email.TemplateData{
		Title:   n.Title,
		Message: n.Message,
		Details: payload.Details,
		Link:    payload.Link,
	})
	if err != nil {
		return err
	}

	return d.sender.Send(ctx, &email.Message{
		To:       []string{user.Email},
		Subject:  n.Title,
		HTMLBody: html,
		TextBody: n.Message,
	})
}

// pushInApp - строка уже видна в ленте, пуш по websocket только ускоряет показ
func (d *Dispatcher) pushInApp(n *models.Notification) {
	if d.pusher == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		logger.Warn("Failed to encode notification for push", "notification_id", n.ID, "error", err.Error())
		return
	}
	if !d.pusher.PushToUser(n.UserID, data) {
		d.metrics.observe(string(n.Channel), ResultOffline)
	}
}
