package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventBookingCreated        = "booking_created"
	EventCancellationRequested = "cancellation_requested"
	EventRefundCompleted       = "refund_completed"
	EventTicketCreated         = "ticket_created"
)

type BookingEvent struct {
	ID                 string       `json:"id"`
	Type               string       `json:"type"`
	BookingID          int64        `json:"booking_id,omitempty"`
	PNR                string       `json:"pnr,omitempty"`
	Status             string       `json:"status,omitempty"`
	CancellationStatus string       `json:"cancellation_status,omitempty"`
	RefundAmount       domain.Money `json:"refund_amount,omitempty"`
	ExpectedRefundDate *time.Time   `json:"expected_refund_date,omitempty"`
	Email              string       `json:"email,omitempty"`
	TicketNumber       string       `json:"ticket_number,omitempty"`
	OccurredAt         time.Time    `json:"occurred_at"`
}

// NewBookingEvent snapshots the booking fields a notification needs.
func NewBookingEvent(eventType string, b *domain.Booking, at time.Time) BookingEvent {
	event := BookingEvent{
		ID:                 uuid.NewString(),
		Type:               eventType,
		BookingID:          b.ID,
		PNR:                b.PNR,
		Status:             string(b.Status),
		RefundAmount:       b.RefundAmount,
		ExpectedRefundDate: b.ExpectedRefundDate,
		Email:              b.ContactEmail,
		OccurredAt:         at,
	}
	if b.CancellationStatus != nil {
		event.CancellationStatus = string(*b.CancellationStatus)
	}
	return event
}

func NewTicketEvent(t *domain.SupportTicket, at time.Time) BookingEvent {
	return BookingEvent{
		ID:           uuid.NewString(),
		Type:         EventTicketCreated,
		Status:       string(t.Status),
		Email:        t.Email,
		TicketNumber: t.TicketNumber,
		OccurredAt:   at,
	}
}

// DefaultPublishTimeout bounds a single Publish made on a request or
// reconciliation path.
const DefaultPublishTimeout = 2 * time.Second

type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *zap.Logger
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		log:     log,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published event", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.log.Info("connected to kafka", zap.Int("partitions", len(partitions)))
	return nil
}
