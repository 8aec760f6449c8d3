package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-reservation/internal/kafka"
	"go.uber.org/zap"
)

// Sender renders notification emails and logs them instead of delivering.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.log.Debug("no recipient, skipping notification", zap.String("type", event.Type), zap.String("event_id", event.ID))
		return nil
	}
	subject, body := Render(event)
	s.log.Info("email sent",
		zap.String("to", event.Email),
		zap.String("subject", subject),
		zap.String("body", body),
		zap.String("event_id", event.ID),
	)
	return nil
}

// Render returns the subject and plain-text body for an event.
func Render(event kafka.BookingEvent) (string, string) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking %s confirmed", event.PNR),
			fmt.Sprintf("Your booking %s is confirmed. Keep this PNR to manage your trip.", event.PNR)
	case kafka.EventCancellationRequested:
		body := fmt.Sprintf("Your booking %s will be cancelled. A refund of %s is on its way", event.PNR, event.RefundAmount)
		if event.ExpectedRefundDate != nil {
			body += fmt.Sprintf(" and is expected by %s", event.ExpectedRefundDate.Format("02 Jan 2006"))
		}
		return fmt.Sprintf("Cancellation requested for %s", event.PNR), body + "."
	case kafka.EventRefundCompleted:
		return fmt.Sprintf("Refund completed for %s", event.PNR),
			fmt.Sprintf("The refund of %s for booking %s has been processed.", event.RefundAmount, event.PNR)
	case kafka.EventTicketCreated:
		return fmt.Sprintf("Support ticket %s received", event.TicketNumber),
			fmt.Sprintf("We received your request. Reference: %s. Our team will reply soon.", event.TicketNumber)
	default:
		return "Booking update", fmt.Sprintf("There is an update (%s) on your booking %s.", event.Type, event.PNR)
	}
}
