package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/vedantnaik09/ey-bpo/internal/models"
)

const (
	TypeComplaintCreated   = "complaint.created"
	TypeComplaintScheduled = "complaint.scheduled"
	TypeStatusChanged      = "complaint.status_changed"
)

// Envelope is the wire shape of a lifecycle event. Downstream collaborators
// (call dispatcher, WhatsApp notifier) consume these; the engine only emits.
type Envelope struct {
	Type       string           `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Complaint  models.Complaint `json:"complaint"`
}

// Producer publishes complaint lifecycle events. A nil Producer is valid and
// drops everything, so callers never branch on whether events are enabled.
type Producer struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

func NewProducer(brokers []string, topic string, logger zerolog.Logger) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

func (p *Producer) ComplaintCreated(ctx context.Context, c models.Complaint) {
	p.publish(ctx, TypeComplaintCreated, c)
}

func (p *Producer) ComplaintScheduled(ctx context.Context, c models.Complaint) {
	p.publish(ctx, TypeComplaintScheduled, c)
}

func (p *Producer) StatusChanged(ctx context.Context, c models.Complaint) {
	p.publish(ctx, TypeStatusChanged, c)
}

// publish is fire-and-forget: a broker hiccup must never fail a submission.
func (p *Producer) publish(ctx context.Context, eventType string, c models.Complaint) {
	if p == nil {
		return
	}
	data, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Complaint:  c,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event", eventType).Msg("failed to encode event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(c.ID, 10)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn().Err(err).Str("event", eventType).Int64("complaint_id", c.ID).Msg("failed to publish event")
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
