package repositories

import (
	"errors"
	"time"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository - и лента уведомлений пользователя, и исходящая очередь доставки
type NotificationRepository interface {
	CreateBatch(db *gorm.DB, notifications []models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	// ListForUser - лента in-app уведомлений, новые сверху
	ListForUser(db *gorm.DB, userID string, page Page) ([]models.Notification, int64, error)
	MarkSeen(db *gorm.DB, id, userID string) error
	MarkAllSeen(db *gorm.DB, userID string) (int64, error)

	// Delivery queue
	// Claim переводит строку в sending до leaseUntil; false - строку уже забрал другой воркер
	Claim(db *gorm.DB, id string, now, leaseUntil time.Time) (bool, error)
	MarkSent(db *gorm.DB, id string, at time.Time) error
	MarkAttempt(db *gorm.DB, id string, attempts int, lastErr string, status models.DeliveryStatus, next *time.Time) error
	// FindDueIDs не берет свежие строки без next_attempt_at (created_at > freshBefore):
	// их уже передал диспетчеру бизнес-код.
	FindDueIDs(db *gorm.DB, now, freshBefore time.Time, limit int) ([]string, error)
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) CreateBatch(db *gorm.DB, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.Create(&notifications).Error
}

func (r *notificationRepository) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListForUser(db *gorm.DB, userID string, page Page) ([]models.Notification, int64, error) {
	var list []models.Notification
	var total int64

	query := db.Model(&models.Notification{}).
		Where("user_id = ? AND channel = ?", userID, models.ChannelInApp)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Scopes(paginate(page)).Find(&list).Error
	return list, total, err
}

func (r *notificationRepository) MarkSeen(db *gorm.DB, id, userID string) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("seen", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllSeen(db *gorm.DB, userID string) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Update("seen", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Claim(db *gorm.DB, id string, now, leaseUntil time.Time) (bool, error) {
	result := db.Model(&models.Notification{}).
		Where("id = ?", id).
		Where("((delivery_status = ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?)) OR (delivery_status = ? AND next_attempt_at <= ?))",
			models.DeliveryPending, now, models.DeliverySending, now).
		Updates(map[string]interface{}{
			"delivery_status": models.DeliverySending,
			"next_attempt_at": leaseUntil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *notificationRepository) MarkSent(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"delivery_status": models.DeliverySent,
		"sent_at":         at,
		"next_attempt_at": nil,
		"last_error":      "",
	}).Error
}

func (r *notificationRepository) MarkAttempt(db *gorm.DB, id string, attempts int, lastErr string, status models.DeliveryStatus, next *time.Time) error {
	return db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"delivery_status": status,
		"attempts":        attempts,
		"last_error":      lastErr,
		"next_attempt_at": next,
	}).Error
}

func (r *notificationRepository) FindDueIDs(db *gorm.DB, now, freshBefore time.Time, limit int) ([]string, error) {
	var ids []string
	// sending с истекшей арендой - воркер упал посреди отправки
	err := db.Model(&models.Notification{}).
		Where("delivery_status IN ?", []models.DeliveryStatus{models.DeliveryPending, models.DeliverySending}).
		Where("((next_attempt_at IS NULL AND created_at <= ?) OR next_attempt_at <= ?)", freshBefore, now).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
