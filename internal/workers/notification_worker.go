package workers

import (
	"context"
	"time"

	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"

	"gorm.io/gorm"
)

// NotificationRetryWorker периодически возвращает в очередь pending-уведомления,
// у которых наступил next_attempt_at (в том числе оставшиеся после рестарта).
type NotificationRetryWorker struct {
	db       *gorm.DB
	repo     repositories.NotificationRepository
	queue    notify.Enqueuer
	interval time.Duration
	batch    int
}

func NewNotificationRetryWorker(db *gorm.DB, repo repositories.NotificationRepository, queue notify.Enqueuer, interval time.Duration) *NotificationRetryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &NotificationRetryWorker{db: db, repo: repo, queue: queue, interval: interval, batch: 200}
}

// Start запускает цикл в отдельной горутине
func (w *NotificationRetryWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *NotificationRetryWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// строки, оставшиеся с прошлого запуска
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification retry worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce ставит в очередь все просроченные строки; возвращает их число.
// Строки моложе interval еще в канале диспетчера и не трогаются.
func (w *NotificationRetryWorker) RunOnce(ctx context.Context) int {
	now := time.Now()
	ids, err := w.repo.FindDueIDs(w.db.WithContext(ctx), now, now.Add(-w.interval), w.batch)
	if err != nil {
		logger.WorkerLog("notification_retry", "find_due", err)
		return 0
	}
	if len(ids) > 0 {
		w.queue.Enqueue(ids...)
		logger.WorkerLog("notification_retry", "requeue", nil, "count", len(ids))
	}
	return len(ids)
}
