// Package cancellation holds the booking cancellation and refund lifecycle.
// It does no I/O: callers load a booking, apply a transition and persist it.
package cancellation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
)

const (
	DefaultChargeRate    = 0.30
	DefaultRefundMinDays = 4
	DefaultRefundMaxDays = 7
)

// Policy decides the money and timing consequences of a cancellation.
type Policy struct {
	// ChargeRate is the share of the total price kept as cancellation charges.
	ChargeRate float64
	// RefundWindow returns the number of days until the refund completes.
	RefundWindow func() int
}

func DefaultPolicy() Policy {
	return NewPolicy(DefaultChargeRate, DefaultRefundMinDays, DefaultRefundMaxDays)
}

// NewPolicy builds a policy with a uniformly random refund window in [minDays, maxDays].
func NewPolicy(chargeRate float64, minDays, maxDays int) Policy {
	if maxDays < minDays {
		maxDays = minDays
	}
	return Policy{
		ChargeRate: chargeRate,
		RefundWindow: func() int {
			return minDays + rand.IntN(maxDays-minDays+1)
		},
	}
}

// FixedWindow always returns days.
func FixedWindow(days int) func() int {
	return func() int { return days }
}

// Outcome describes an accepted cancellation request.
type Outcome struct {
	Days    int
	Message string
}

// ResolveTotalPrice picks the booking's own price, then the flight snapshot
// price, then the linked flight's current price.
func ResolveTotalPrice(b *domain.Booking, linked *domain.Flight) domain.Money {
	if b.TotalPrice > 0 {
		return b.TotalPrice
	}
	if b.FlightData != nil && b.FlightData.Price > 0 {
		return b.FlightData.Price
	}
	if linked != nil && linked.Price > 0 {
		return linked.Price
	}
	return 0
}

// Request moves b into pending_cancellation. A booking that already started
// cancelling is rejected with domain.ErrConflict and left untouched.
func (p Policy) Request(b *domain.Booking, linked *domain.Flight, now time.Time) (Outcome, error) {
	if !CanTransition(b.CancellationStatus, domain.CancellationPending) {
		return Outcome{}, domain.Conflictf("booking %s is already %s", b.PNR, *b.CancellationStatus)
	}

	total := ResolveTotalPrice(b, linked)
	charges := total.Share(p.ChargeRate)

	days := DefaultRefundMinDays
	if p.RefundWindow != nil {
		days = p.RefundWindow()
	}
	expected := now.AddDate(0, 0, days)
	pending := domain.CancellationPending

	b.TotalPrice = total
	b.CancellationCharges = charges
	b.RefundAmount = total - charges
	b.Status = domain.BookingStatusCancelled
	b.CancellationStatus = &pending
	b.CancellationDate = &now
	b.ExpectedRefundDate = &expected

	return Outcome{
		Days:    days,
		Message: fmt.Sprintf("Your booking will be cancelled. Refunds will be processed in %d business days.", days),
	}, nil
}

// Reconcile finalises a pending cancellation whose refund date has passed. It
// reports whether b changed; calling it again after a change is a no-op.
func Reconcile(b *domain.Booking, now time.Time) bool {
	if !CanTransition(b.CancellationStatus, domain.CancellationCancelled) {
		return false
	}
	if b.ExpectedRefundDate == nil || b.ExpectedRefundDate.After(now) {
		return false
	}
	done := domain.CancellationCancelled
	b.CancellationStatus = &done
	b.RefundCompletedDate = &now
	return true
}
