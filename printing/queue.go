package printing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"adisyo-api/models"
)

// QueueMessage is the body published for kitchen display screens.
type QueueMessage struct {
	PrinterID   uint      `json:"printer_id"`
	PrinterName string    `json:"printer_name"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueueTransport publishes tickets to RabbitMQ. The printer connection
// string names the queue; DefaultQueue is used when it is empty.
type QueueTransport struct {
	URL          string
	DefaultQueue string
	Timeout      time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
}

func (q *QueueTransport) Print(ctx context.Context, printer models.Printer, content string) error {
	queue := strings.TrimSpace(printer.ConnectionString)
	if queue == "" {
		queue = q.DefaultQueue
	}

	body, err := json.Marshal(QueueMessage{
		PrinterID:   printer.ID,
		PrinterName: printer.Name,
		Content:     content,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}

	conn, err := q.connection()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (q *QueueTransport) connection() (*amqp.Connection, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.conn != nil && !q.conn.IsClosed() {
		return q.conn, nil
	}
	if q.URL == "" {
		return nil, fmt.Errorf("AMQP_URL is not configured")
	}

	cfg := amqp.Config{}
	if q.Timeout > 0 {
		cfg.Dial = amqp.DefaultDial(q.Timeout)
	}
	conn, err := amqp.DialConfig(q.URL, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	q.conn = conn
	return conn, nil
}

func (q *QueueTransport) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.conn != nil && !q.conn.IsClosed() {
		return q.conn.Close()
	}
	return nil
}
