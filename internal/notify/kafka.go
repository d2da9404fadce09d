package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher writes a keyed message to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// BrokerSender publishes each notice as JSON, keyed by recipient, so other
// services can relay it (SMS, push).
type BrokerSender struct {
	publisher Publisher
}

// NewBrokerSender returns a sender publishing through p.
func NewBrokerSender(p Publisher) *BrokerSender {
	return &BrokerSender{publisher: p}
}

// Channel implements Sender.
func (s *BrokerSender) Channel() string { return "kafka" }

// Send publishes the notice as JSON keyed by its recipient.
func (s *BrokerSender) Send(ctx context.Context, n Notice) error {
	const op = "notify.BrokerSender.Send"

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.publisher.Publish(ctx, []byte(n.To), data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
