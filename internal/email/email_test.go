package email

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRender(t *testing.T) {
	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	subject, body := Render(kafka.BookingEvent{
		Type:               kafka.EventCancellationRequested,
		PNR:                "ABC123",
		RefundAmount:       domain.NewMoney(7000),
		ExpectedRefundDate: &due,
	})
	assert.Equal(t, "Cancellation requested for ABC123", subject)
	assert.Contains(t, body, "7000.00")
	assert.Contains(t, body, "15 Jan 2025")

	subject, _ = Render(kafka.BookingEvent{Type: kafka.EventTicketCreated, TicketNumber: "TKT000042"})
	assert.Equal(t, "Support ticket TKT000042 received", subject)

	subject, _ = Render(kafka.BookingEvent{Type: kafka.EventRefundCompleted, PNR: "XYZ789"})
	assert.Equal(t, "Refund completed for XYZ789", subject)
}

func TestSender_Send(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sender := NewSender(zap.New(core))

	err := sender.Send(context.Background(), kafka.BookingEvent{
		ID: "evt-1", Type: kafka.EventBookingCreated, PNR: "ABC123", Email: "traveller@example.com",
	})
	require.NoError(t, err)

	err = sender.Send(context.Background(), kafka.BookingEvent{ID: "evt-2", Type: kafka.EventBookingCreated})
	require.NoError(t, err)

	sent := logs.FilterMessage("email sent").All()
	require.Len(t, sent, 1)
	assert.Equal(t, "traveller@example.com", sent[0].ContextMap()["to"])
	assert.Equal(t, 1, logs.FilterMessage("no recipient, skipping notification").Len())
}
