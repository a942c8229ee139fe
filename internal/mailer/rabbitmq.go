package mailer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const queueName = "notification_emails"

// Queue is a RabbitMQ backed Mailer. The queue is durable so pending
// notifications survive a broker restart.
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewQueue dials RabbitMQ at url and declares the notification queue.
func NewQueue(url string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Queue{conn: conn, channel: ch, queue: q}, nil
}

// Enqueue publishes the email onto the queue with a short timeout so a
// stalled broker cannot hold up the caller.
func (q *Queue) Enqueue(ctx context.Context, e Email) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return q.channel.PublishWithContext(
		ctx,
		"",           // exchange
		q.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume delivers queued emails to handler until the channel closes.
func (q *Queue) Consume(handler func(Email)) error {
	msgs, err := q.channel.Consume(
		q.queue.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			var e Email
			if err := json.Unmarshal(d.Body, &e); err != nil {
				logrus.WithError(err).Warn("invalid email payload, dropping")
				continue
			}
			handler(e)
		}
	}()
	return nil
}

// Close shuts the channel and connection down.
func (q *Queue) Close() error {
	if err := q.channel.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}
