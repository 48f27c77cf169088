package email

import "context"

// Message - исходящее письмо
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender отправляет письма. Реализации: SMTPSender (gomail) и NoopSender.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
