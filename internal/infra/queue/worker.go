package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// SessionEventPayload é a mensagem publicada por outros serviços quando uma
// sessão é revogada ou expira fora deste processo.
type SessionEventPayload struct {
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SessionEventSink recebe os eventos já decodificados.
type SessionEventSink interface {
	Publish(ev entity.SessionEvent)
}

type Worker struct {
	Channel *amqp.Channel
	Sink    SessionEventSink
}

func NewWorker(ch *amqp.Channel, sink SessionEventSink) *Worker {
	return &Worker{
		Channel: ch,
		Sink:    sink,
	}
}

// Start consome a fila até ctx ser cancelado ou o canal fechar. O consumidor é
// único, então os eventos são aplicados na ordem em que chegam.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // ack manual
		true,  // exclusivo: um consumidor preserva a ordem
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Worker de eventos de sessão encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Println("⚠️ Canal do RabbitMQ fechado")
				return nil
			}
			if err := w.Handle(d.Body); err != nil {
				log.Printf("❌ [WORKER] %s", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Handle decodifica e entrega uma mensagem. Mensagem inválida retorna erro
// para ir à DLQ sem requeue.
func (w *Worker) Handle(body []byte) error {
	ev, err := DecodeSessionEvent(body)
	if err != nil {
		return err
	}

	log.Printf("📥 [WORKER] Evento de sessão recebido: %s", ev.Kind)
	w.Sink.Publish(ev)
	return nil
}

func DecodeSessionEvent(body []byte) (entity.SessionEvent, error) {
	var payload SessionEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return entity.SessionEvent{}, fmt.Errorf("JSON inválido: %w", err)
	}

	kind := entity.SessionEventKind(payload.Kind)
	switch kind {
	case entity.SessionSignedOut, entity.SessionExpired:
	default:
		return entity.SessionEvent{}, fmt.Errorf("tipo de evento não suportado: %q", payload.Kind)
	}

	ev := entity.SessionEvent{Kind: kind, At: payload.OccurredAt}
	if payload.UserID != "" {
		ev.Session = &entity.Session{UserID: payload.UserID}
	}
	return ev, nil
}
