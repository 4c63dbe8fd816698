package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	LeadExchangeName    = "ex.leads"
	SessionExchangeName = "ex.auth"
	SessionQueueName    = "q.session-events"
	SessionDLQName      = "q.session-events.dlq"
	DLXName             = "ex.dlx"
	SessionRoutingKey   = "k.session"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("falha ao declarar topologia: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func setupTopology(ch *amqp.Channel) error {
	// Eventos de lead: topic, quem quiser consome.
	if err := ch.ExchangeDeclare(LeadExchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(SessionDLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(SessionDLQName, SessionRoutingKey, DLXName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": SessionRoutingKey,
	}

	if err := ch.ExchangeDeclare(SessionExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(SessionQueueName, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(SessionQueueName, SessionRoutingKey, SessionExchangeName, false, nil)
}

func (r *RabbitMQ) Close() {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}
