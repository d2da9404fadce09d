package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/Shivanand-hulikatti/care-connect/internal/config"
)

// ErrNoRecipient is returned for a notice without a To address.
var ErrNoRecipient = errors.New("notice has no recipient")

// MailSender delivers notices as HTML email through an SMTP relay,
// always from the configured account.
type MailSender struct {
	send func(m ...*gomail.Message) error
	from string

	inflight sync.WaitGroup
}

// NewMailSender returns a sender dialing the relay in cfg.
func NewMailSender(cfg config.MailConfig) *MailSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &MailSender{send: dialer.DialAndSend, from: cfg.User}
}

// Channel implements Sender.
func (s *MailSender) Channel() string { return "email" }

// Send dials the relay for every notice. gomail has no context support, so
// ctx only bounds how long the caller waits; a timed out SMTP session keeps
// running until the relay answers and is tracked by Wait.
func (s *MailSender) Send(ctx context.Context, n Notice) error {
	const op = "notify.MailSender.Send"

	if n.To == "" {
		return fmt.Errorf("%s: %w", op, ErrNoRecipient)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/html", n.HTML)

	errCh := make(chan error, 1)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		errCh <- s.send(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// Wait blocks until every SMTP session started by Send has ended or ctx is done.
func (s *MailSender) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
