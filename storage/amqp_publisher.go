package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"real-estate-hungary/models"
)

const publishTimeout = 10 * time.Second

// AMQPPublisher publishes every record as a JSON message on a durable queue
// of the default exchange.
type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	runID uuid.UUID
}

// NewAMQPPublisher dials url and declares queue.
func NewAMQPPublisher(url, queue string, runID uuid.UUID) (*AMQPPublisher, error) {
	if queue == "" {
		return nil, fmt.Errorf("amqp: queue name cannot be empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: declare queue %q: %w", queue, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: queue, runID: runID}, nil
}

// Write publishes the rows of table in order, stopping at the first failure.
func (p *AMQPPublisher) Write(table *models.Table) error {
	for _, rec := range table.Rows() {
		msg, err := newMessage(rec, p.runID, time.Now())
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err = p.ch.PublishWithContext(ctx,
			"",      // default exchange
			p.queue, // routing key
			false,   // mandatory
			false,   // immediate
			msg,
		)
		cancel()
		if err != nil {
			return fmt.Errorf("amqp: publish %s: %w", rec.Text(models.FieldPropertyURL), err)
		}
	}
	return nil
}

func newMessage(rec *models.Record, runID uuid.UUID, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("amqp: encode record: %w", err)
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: runID.String(),
		Timestamp:     now,
		Type:          "listing." + rec.Text(models.FieldLang),
		Body:          body,
	}, nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("amqp: close channel: %w", err)
	}
	return p.conn.Close()
}
