package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	routingKeyUpdated      = "pricing.updated"
	routingKeyUpdateFailed = "pricing.update_failed"
)

// AMQPSink publishes pricing events to a durable topic exchange so that a
// downstream notification service can fan them out to operators.
type AMQPSink struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPSink dials the broker and declares the exchange.
func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &AMQPSink{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *AMQPSink) Success(ctx context.Context, courtID, message string) {
	s.publish(ctx, routingKeyUpdated, Event{
		Kind: KindSuccess, CourtID: courtID, Message: message, At: time.Now().UTC(),
	})
}

func (s *AMQPSink) Error(ctx context.Context, courtID, message string) {
	s.publish(ctx, routingKeyUpdateFailed, Event{
		Kind: KindError, CourtID: courtID, Message: message, At: time.Now().UTC(),
	})
}

func (s *AMQPSink) publish(ctx context.Context, key string, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: marshal event failed: %v", err)
		return
	}
	// The commit's ctx may already be cancelled; notifications still go out.
	if ctx == nil || ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	err = s.ch.PublishWithContext(ctx, s.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("notify: publish %s failed: %v", key, err)
	}
}

// Close releases the channel and connection.
func (s *AMQPSink) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
