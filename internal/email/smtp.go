package email

import (
	"context"
	"errors"
	"fmt"

	"hireflow_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPSender отправляет письма через SMTP relay
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	ec := cfg.Email
	if ec.SMTPHost == "" {
		return nil, errors.New("SMTP host is required")
	}
	if ec.SMTPPort <= 0 || ec.SMTPPort > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", ec.SMTPPort)
	}
	if ec.FromEmail == "" {
		return nil, errors.New("from email is required")
	}

	return &SMTPSender{
		dialer:   gomail.NewDialer(ec.SMTPHost, ec.SMTPPort, ec.SMTPUsername, ec.SMTPPassword),
		from:     ec.FromEmail,
		fromName: ec.FromName,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.TextBody != "" {
		m.SetBody("text/plain", msg.TextBody)
		if msg.HTMLBody != "" {
			m.AddAlternative("text/html", msg.HTMLBody)
		}
	} else {
		m.SetBody("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
