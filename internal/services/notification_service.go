package services

import (
	"errors"

	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	// Enqueue сохраняет строки исходящей очереди и передает их диспетчеру.
	// Вызывается после Commit бизнес-транзакции; ошибки только логируются.
	Enqueue(db *gorm.DB, items []models.Notification)

	List(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	MarkSeen(db *gorm.DB, userID, notificationID string) error
	MarkAllSeen(db *gorm.DB, userID string) (*dto.MarkAllSeenResponse, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	queue            notify.Enqueuer
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, queue notify.Enqueuer) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		queue:            queue,
	}
}

func (s *NotificationServiceImpl) Enqueue(db *gorm.DB, items []models.Notification) {
	if len(items) == 0 {
		return
	}
	if err := s.notificationRepo.CreateBatch(db, items); err != nil {
		logger.CtxWithError(db.Statement.Context, "Failed to store notifications", err, "count", len(items))
		return
	}
	if s.queue == nil {
		return
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	s.queue.Enqueue(ids...)
}

func (s *NotificationServiceImpl) List(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	page := pageOf(q)
	items, total, err := s.notificationRepo.ListForUser(db, userID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *NotificationServiceImpl) MarkSeen(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkSeen(db, notificationID, userID); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllSeen(db *gorm.DB, userID string) (*dto.MarkAllSeenResponse, error) {
	updated, err := s.notificationRepo.MarkAllSeen(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.MarkAllSeenResponse{Updated: updated}, nil
}

func handleNotificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotificationNotFound
	}
	return apperrors.InternalError(err)
}

// notice - одно событие для нескольких получателей и каналов
type notice struct {
	UserIDs  []string
	Channels []models.NotificationChannel
	Type     models.NotificationType
	Title    string
	Message  string
	Payload  notify.Payload
}

// rows разворачивает событие в строки очереди: по одной на получателя и канал
func (n notice) rows() []models.Notification {
	payload := n.Payload.JSON()
	out := make([]models.Notification, 0, len(n.UserIDs)*len(n.Channels))
	for _, userID := range n.UserIDs {
		for _, ch := range n.Channels {
			out = append(out, models.Notification{
				UserID:         userID,
				Channel:        ch,
				Type:           n.Type,
				Title:          n.Title,
				Message:        n.Message,
				Payload:        payload,
				DeliveryStatus: models.DeliveryPending,
			})
		}
	}
	return out
}

var (
	inAppOnly     = []models.NotificationChannel{models.ChannelInApp}
	inAppAndEmail = []models.NotificationChannel{models.ChannelInApp, models.ChannelEmail}
)
