package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"itsm-desk/core/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event describes one record mutation.
type Event struct {
	ID       string    `json:"id"`
	Module   string    `json:"module"`
	Action   string    `json:"action"`
	RecordID string    `json:"record_id"`
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
	Record   any       `json:"record,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *utils.Logger
}

func NewAMQPPublisher(url, exchange string, logger *utils.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ev), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.At,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RoutingKey is "<module>.<action>", e.g. "incidents.status".
func RoutingKey(ev Event) string {
	return strings.ToLower(ev.Module) + "." + strings.ToLower(ev.Action)
}

// Open connects to the broker when a URL is configured and falls back to a
// no-op publisher otherwise.
func Open(url, exchange string, logger *utils.Logger) Publisher {
	if strings.TrimSpace(url) == "" {
		return NopPublisher{}
	}
	pub, err := NewAMQPPublisher(url, exchange, logger)
	if err != nil {
		logger.Errorf("events disabled: %v", err)
		return NopPublisher{}
	}
	logger.Printf("events publishing to exchange %s", exchange)
	return pub
}
