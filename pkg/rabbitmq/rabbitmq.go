package rabbitmq

import (
	"github.com/streadway/amqp"
)

// Publisher sends a message body to a named queue. Services depend on this
// interface so they can be tested without a broker.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// InitRabbitMQ opens a connection to the broker.
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type amqpPublisher struct {
	conn *amqp.Connection
}

// NewPublisher declares the given queues (idempotent) and returns a Publisher
// backed by the connection.
func NewPublisher(conn *amqp.Connection, queues ...string) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	for _, q := range queues {
		// durable queue, survives broker restarts
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return nil, err
		}
	}
	return &amqpPublisher{conn: conn}, nil
}

// Publish opens a throwaway channel per message so concurrent publishers do
// not share channel state.
func (p *amqpPublisher) Publish(queue string, body []byte) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
}
