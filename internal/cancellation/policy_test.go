package cancellation

import (
	"testing"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:         1,
		PNR:        "ABC123",
		Status:     domain.BookingStatusConfirmed,
		Passengers: []domain.Passenger{{FirstName: "Ravi", LastName: "Jones"}},
	}
}

func TestPolicy_Request_DomesticScenario(t *testing.T) {
	b := confirmedBooking()
	b.TotalPrice = domain.NewMoney(10000)
	policy := Policy{ChargeRate: DefaultChargeRate, RefundWindow: FixedWindow(5)}

	outcome, err := policy.Request(b, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 5, outcome.Days)
	assert.Equal(t, "Your booking will be cancelled. Refunds will be processed in 5 business days.", outcome.Message)
	assert.Equal(t, domain.NewMoney(10000), b.TotalPrice)
	assert.Equal(t, domain.NewMoney(3000), b.CancellationCharges)
	assert.Equal(t, domain.NewMoney(7000), b.RefundAmount)
	assert.Equal(t, domain.BookingStatusCancelled, b.Status)
	assert.True(t, b.InCancellation(domain.CancellationPending))
	assert.Equal(t, now, *b.CancellationDate)
	assert.Equal(t, now.AddDate(0, 0, 5), *b.ExpectedRefundDate)

	later := b.ExpectedRefundDate.Add(time.Minute)
	assert.True(t, Reconcile(b, later))
	assert.True(t, b.InCancellation(domain.CancellationCancelled))
	assert.Equal(t, later, *b.RefundCompletedDate)
	assert.Equal(t, domain.NewMoney(3000), b.CancellationCharges)
	assert.Equal(t, domain.NewMoney(7000), b.RefundAmount)
}

func TestPolicy_Request_SnapshotPriceFallback(t *testing.T) {
	b := confirmedBooking()
	b.FlightData = &domain.FlightSnapshot{Airline: "IndiGo", Price: domain.NewMoney(5000)}

	_, err := DefaultPolicy().Request(b, &domain.Flight{Price: domain.NewMoney(9000)}, now)
	require.NoError(t, err)

	assert.Equal(t, domain.NewMoney(5000), b.TotalPrice)
	assert.Equal(t, domain.NewMoney(1500), b.CancellationCharges)
	assert.Equal(t, domain.NewMoney(3500), b.RefundAmount)
}

func TestResolveTotalPrice(t *testing.T) {
	testCases := []struct {
		name     string
		booking  *domain.Booking
		linked   *domain.Flight
		expected domain.Money
	}{
		{
			name:     "own price wins",
			booking:  &domain.Booking{TotalPrice: 100, FlightData: &domain.FlightSnapshot{Price: 200}},
			linked:   &domain.Flight{Price: 300},
			expected: 100,
		},
		{
			name:     "snapshot before linked flight",
			booking:  &domain.Booking{FlightData: &domain.FlightSnapshot{Price: 200}},
			linked:   &domain.Flight{Price: 300},
			expected: 200,
		},
		{
			name:     "linked flight",
			booking:  &domain.Booking{FlightData: &domain.FlightSnapshot{}},
			linked:   &domain.Flight{Price: 300},
			expected: 300,
		},
		{
			name:     "nothing known",
			booking:  &domain.Booking{},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveTotalPrice(tc.booking, tc.linked))
		})
	}
}

func TestPolicy_Request_ChargesPlusRefundEqualTotal(t *testing.T) {
	policy := DefaultPolicy()
	prices := []float64{0, 0.01, 0.05, 1, 99.99, 1234.57, 4999.99, 10000, 123456.78}

	for i := 0; i < 50; i++ {
		for _, price := range prices {
			b := confirmedBooking()
			b.TotalPrice = domain.NewMoney(price)

			_, err := policy.Request(b, nil, now)
			require.NoError(t, err)

			assert.Equal(t, b.TotalPrice, b.CancellationCharges+b.RefundAmount)
			assert.InDelta(t, b.TotalPrice.Float64()*0.70, b.RefundAmount.Float64(), 0.01)
			assert.True(t, b.InCancellation(domain.CancellationPending))

			minDate := b.CancellationDate.AddDate(0, 0, DefaultRefundMinDays)
			maxDate := b.CancellationDate.AddDate(0, 0, DefaultRefundMaxDays)
			assert.False(t, b.ExpectedRefundDate.Before(minDate))
			assert.False(t, b.ExpectedRefundDate.After(maxDate))
		}
	}
}

func TestNewPolicy_WindowCoversRange(t *testing.T) {
	policy := NewPolicy(DefaultChargeRate, 4, 7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		days := policy.RefundWindow()
		require.GreaterOrEqual(t, days, 4)
		require.LessOrEqual(t, days, 7)
		seen[days] = true
	}
	assert.Len(t, seen, 4)
}

func TestPolicy_Request_RejectsRepeatedCancellation(t *testing.T) {
	for _, status := range []domain.CancellationStatus{
		domain.CancellationPending,
		domain.CancellationCancelled,
		domain.CancellationRefunded,
	} {
		t.Run(string(status), func(t *testing.T) {
			s := status
			b := confirmedBooking()
			b.TotalPrice = domain.NewMoney(100)
			b.CancellationStatus = &s

			_, err := DefaultPolicy().Request(b, nil, now)

			assert.ErrorIs(t, err, domain.ErrConflict)
			assert.Equal(t, status, *b.CancellationStatus)
			assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
			assert.Zero(t, b.CancellationCharges)
		})
	}
}

func TestReconcile_NotYetDue(t *testing.T) {
	b := confirmedBooking()
	b.TotalPrice = domain.NewMoney(100)
	_, err := Policy{ChargeRate: DefaultChargeRate, RefundWindow: FixedWindow(4)}.Request(b, nil, now)
	require.NoError(t, err)

	assert.False(t, Reconcile(b, b.ExpectedRefundDate.Add(-time.Second)))
	assert.True(t, b.InCancellation(domain.CancellationPending))
	assert.Nil(t, b.RefundCompletedDate)
}

func TestReconcile_Idempotent(t *testing.T) {
	b := confirmedBooking()
	_, err := DefaultPolicy().Request(b, nil, now)
	require.NoError(t, err)

	due := *b.ExpectedRefundDate
	require.True(t, Reconcile(b, due))
	once := *b

	assert.False(t, Reconcile(b, due.Add(time.Hour)))
	assert.Equal(t, once, *b)
}

func TestReconcile_IgnoresUncancelled(t *testing.T) {
	b := confirmedBooking()
	assert.False(t, Reconcile(b, now))
	assert.Nil(t, b.CancellationStatus)
}

func TestReconcile_OnlyAdvancesPending(t *testing.T) {
	past := now.AddDate(0, 0, -10)
	for _, status := range []domain.CancellationStatus{domain.CancellationCancelled, domain.CancellationRefunded} {
		t.Run(string(status), func(t *testing.T) {
			b := confirmedBooking()
			st := status
			b.CancellationStatus = &st
			b.ExpectedRefundDate = &past

			assert.False(t, Reconcile(b, now))
			assert.Equal(t, status, *b.CancellationStatus)
			assert.Nil(t, b.RefundCompletedDate)
		})
	}
}

func TestCanTransition(t *testing.T) {
	pending := domain.CancellationPending
	cancelled := domain.CancellationCancelled

	assert.True(t, CanTransition(nil, domain.CancellationPending))
	assert.True(t, CanTransition(&pending, domain.CancellationCancelled))
	assert.False(t, CanTransition(&cancelled, domain.CancellationPending))
	assert.False(t, CanTransition(&pending, domain.CancellationPending))
	assert.False(t, CanTransition(nil, domain.CancellationCancelled))

	refunded := domain.CancellationRefunded
	assert.True(t, CanTransition(&cancelled, domain.CancellationRefunded))
	assert.False(t, CanTransition(&refunded, domain.CancellationCancelled))
}
