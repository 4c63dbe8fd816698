package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

type LeadEventPayload struct {
	EventID    string      `json:"event_id"`
	Kind       string      `json:"kind"`
	Lead       entity.Lead `json:"lead"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Publisher é o pedaço do canal AMQP que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// PublishLeadEvent usa o tipo do evento (lead.created, lead.updated) como routing key.
func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, kind string, lead entity.Lead) error {
	payload := LeadEventPayload{
		EventID:    uuid.New().String(),
		Kind:       kind,
		Lead:       lead,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		LeadExchangeName,
		kind,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    payload.EventID,
			Timestamp:    payload.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
