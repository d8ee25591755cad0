package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ChangeEvent is the payload published when an entity row changes.
type ChangeEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes entity change events. There is no consumer in this
// service; downstream systems (notification fan-out, audit) subscribe on
// their own.
type Notifier struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewNotifier(publisher message.Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger}
}

// EntityChanged publishes to the per-entity topic. Publish failures are
// logged, not returned: the write already happened and the request must
// not fail on a lagging broker.
func (n *Notifier) EntityChanged(entity, action, recordID string) {
	if n == nil || n.publisher == nil {
		return
	}

	payload, err := json.Marshal(ChangeEvent{
		Entity:     entity,
		Action:     action,
		RecordID:   recordID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		n.logger.Error("marshal change event", "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := n.publisher.Publish(Topic(entity), msg); err != nil {
		n.logger.Error("publish change event", "entity", entity, "action", action, "error", err)
	}
}

func (n *Notifier) Close() error {
	if n == nil || n.publisher == nil {
		return nil
	}
	return n.publisher.Close()
}

// Topic names the stream for an entity.
func Topic(entity string) string {
	return fmt.Sprintf("school.%s", entity)
}

// NewKafkaPublisher builds the production publisher.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (message.Publisher, error) {
	return kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(logger))
}
