package workers

import (
	"context"
	"time"

	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/repositories"

	"gorm.io/gorm"
)

// TokenCleanupWorker удаляет истекшие refresh-токены
type TokenCleanupWorker struct {
	db       *gorm.DB
	users    repositories.UserRepository
	interval time.Duration
}

func NewTokenCleanupWorker(db *gorm.DB, users repositories.UserRepository, interval time.Duration) *TokenCleanupWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &TokenCleanupWorker{db: db, users: users, interval: interval}
}

func (w *TokenCleanupWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *TokenCleanupWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			removed, err := w.users.CleanExpiredRefreshTokens(w.db.WithContext(ctx))
			if err != nil {
				logger.WorkerLog("token_cleanup", "clean_expired", err)
				continue
			}
			if removed > 0 {
				logger.WorkerLog("token_cleanup", "clean_expired", nil, "removed", removed)
			}
		}
	}
}
