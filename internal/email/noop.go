package email

import (
	"context"

	"hireflow_backend/internal/logger"
)

// NoopSender используется, когда SMTP не настроен: письмо только логируется
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg *Message) error {
	logger.CtxDebug(ctx, "Email delivery disabled, dropping message",
		"to", msg.To, "subject", msg.Subject)
	return nil
}
