// internal/infrastructure/messaging/kafka/producer.go
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/order"
)

// producerName identifies this service in event envelopes
const producerName = "storefront-api"

var (
	// ErrBufferFull is returned when the outgoing queue cannot take more events
	ErrBufferFull = errors.New("kafka: order event buffer is full")
	// ErrClosed is returned by Publish after Close
	ErrClosed = errors.New("kafka: producer is closed")
)

// Envelope wraps every published event
type Envelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order events to Kafka from a single background
// goroutine, so the request path never waits on the broker
type Producer struct {
	writer messageWriter
	logger *logrus.Logger
	inbox  chan kafka.Message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewProducer creates a producer for cfg.Kafka and starts its send loop
func NewProducer(cfg *config.Config, logger *logrus.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.OrderTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newProducer(writer, cfg.Kafka.BufferSize, logger)
}

func newProducer(writer messageWriter, buffer int, logger *logrus.Logger) *Producer {
	if buffer <= 0 {
		buffer = 1
	}
	p := &Producer{
		writer: writer,
		logger: logger,
		inbox:  make(chan kafka.Message, buffer),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish implements order.EventPublisher. It only enqueues; delivery errors
// are logged by the send loop.
func (p *Producer) Publish(ctx context.Context, event order.Event) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Close stops accepting events, flushes the queue and closes the writer.
// It returns early if ctx expires first.
func (p *Producer) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Producer) run() {
	defer close(p.done)

	for msg := range p.inbox {
		if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
			p.logger.WithError(err).WithField("key", string(msg.Key)).Error("Failed to write order event")
		}
	}

	if err := p.writer.Close(); err != nil {
		p.logger.WithError(err).Error("Failed to close kafka writer")
	}
}

// encode builds the envelope message keyed by order id, so every event of
// one order lands on the same partition
func encode(event order.Event) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	value, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		EventType:  string(event.Type),
		OccurredAt: event.OccurredAt,
		Producer:   producerName,
		Payload:    payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}
