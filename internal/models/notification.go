package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification - одновременно сообщение пользователю и задача в исходящей очереди.
// Диспетчер доставляет строки со статусом pending и повторяет неудачные попытки.
type Notification struct {
	BaseModel
	UserID         string              `gorm:"type:uuid;not null;index:idx_notifications_user_seen" json:"userId"`
	Channel        NotificationChannel `gorm:"type:varchar(20);not null;default:'in-app'" json:"channel"`
	Type           NotificationType    `gorm:"type:varchar(20);not null;default:'informational'" json:"type"`
	Title          string              `gorm:"not null" json:"title"`
	Message        string              `gorm:"not null" json:"message"`
	Payload        datatypes.JSON      `json:"payload,omitempty"`
	DeliveryStatus DeliveryStatus      `gorm:"type:varchar(20);not null;default:'pending';index:idx_notifications_delivery" json:"deliveryStatus"`
	Attempts       int                 `gorm:"not null;default:0" json:"-"`
	LastError      string              `json:"-"`
	NextAttemptAt  *time.Time          `gorm:"index:idx_notifications_delivery" json:"-"`
	SentAt         *time.Time          `json:"sentAt,omitempty"`
	Seen           bool                `gorm:"not null;default:false;index:idx_notifications_user_seen" json:"seen"`
}
