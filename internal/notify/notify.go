// Package notify dispatches booking notices. Dispatch is fire-and-forget:
// each notice is sent on a detached goroutine and its outcome is only logged.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
)

// Notice is one templated message to one recipient.
type Notice struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers a notice over one channel.
type Sender interface {
	Channel() string
	Send(ctx context.Context, n Notice) error
}

// Observer records the outcome of each delivery attempt.
type Observer interface {
	ObserveNotice(channel string, err error)
}

// Dispatcher fans every notice out to all senders in the background.
type Dispatcher struct {
	log      *slog.Logger
	senders  []Sender
	timeout  time.Duration
	observer Observer

	wg sync.WaitGroup
}

// NewDispatcher returns a Dispatcher. observer may be nil.
func NewDispatcher(log *slog.Logger, timeout time.Duration, observer Observer, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		log:      log,
		senders:  senders,
		timeout:  timeout,
		observer: observer,
	}
}

// Dispatch starts delivery of n and returns immediately. The delivery is not
// bound to any request context.
func (d *Dispatcher) Dispatch(n Notice) {
	for _, s := range d.senders {
		d.wg.Add(1)
		go d.deliver(s, n)
	}
}

func (d *Dispatcher) deliver(s Sender, n Notice) {
	const op = "notify.Dispatcher.deliver"
	defer d.wg.Done()

	log := d.log.With(
		slog.String("op", op),
		slog.String("channel", s.Channel()),
		slog.String("to", n.To),
		slog.String("subject", n.Subject),
	)

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := s.Send(ctx, n)
	if d.observer != nil {
		d.observer.ObserveNotice(s.Channel(), err)
	}
	if err != nil {
		log.Error("failed to send notice", sl.Err(err))
		return
	}
	log.Info("notice sent")
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
