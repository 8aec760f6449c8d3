package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	List(ctx context.Context, userID *int64) ([]domain.Booking, error)
	ListPendingCancellations(ctx context.Context) ([]domain.Booking, error)
	// ApplyCancellation stores a pending cancellation. It fails with
	// domain.ErrConflict if the row changed since booking was read.
	ApplyCancellation(ctx context.Context, booking *domain.Booking) error
	// CompleteRefund stores a finished refund. It fails with domain.ErrConflict
	// if the row is no longer pending_cancellation.
	CompleteRefund(ctx context.Context, booking *domain.Booking) error
}

type PGBookingRepository struct {
	db Querier
}

func NewBookingRepository(db Querier) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, pnr, user_id, contact_email, passengers, seats, addons, payment_data, flight_id, flight_data,
	status, cancellation_status, cancellation_date, expected_refund_date, refund_completed_date,
	ROUND(total_price * 100)::bigint, ROUND(cancellation_charges * 100)::bigint, ROUND(refund_amount * 100)::bigint,
	version, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return fmt.Errorf("encode passengers: %w", err)
	}
	var flightData []byte
	if booking.FlightData != nil {
		if flightData, err = json.Marshal(booking.FlightData); err != nil {
			return fmt.Errorf("encode flight data: %w", err)
		}
	}

	err = r.db.QueryRow(ctx, `INSERT INTO bookings (pnr, user_id, contact_email, passengers, seats, addons, payment_data,
			flight_id, flight_data, status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::bigint / 100.0)
		RETURNING id, version, created_at, updated_at`,
		booking.PNR, booking.UserID, booking.ContactEmail, passengers, rawOrNil(booking.Seats), rawOrNil(booking.Addons),
		rawOrNil(booking.PaymentData), booking.FlightID, flightData, string(booking.Status), int64(booking.TotalPrice),
	).Scan(&booking.ID, &booking.Version, &booking.CreatedAt, &booking.UpdatedAt)
	return translate("create booking", err)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, translate(fmt.Sprintf("get booking %d", id), err)
	}
	return b, nil
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE upper(pnr)=upper($1)`, pnr))
	if err != nil {
		return nil, translate(fmt.Sprintf("get booking %s", pnr), err)
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE $1::bigint IS NULL OR user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, translate("list bookings", err)
	}
	return collectBookings("list bookings", rows)
}

func (r *PGBookingRepository) ListPendingCancellations(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE cancellation_status = $1
		ORDER BY expected_refund_date`, string(domain.CancellationPending))
	if err != nil {
		return nil, translate("list pending cancellations", err)
	}
	return collectBookings("list pending cancellations", rows)
}

func (r *PGBookingRepository) ApplyCancellation(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `UPDATE bookings SET
			status = $1,
			cancellation_status = $2,
			cancellation_date = $3,
			expected_refund_date = $4,
			total_price = $5::bigint / 100.0,
			cancellation_charges = $6::bigint / 100.0,
			refund_amount = $7::bigint / 100.0,
			version = version + 1,
			updated_at = now()
		WHERE id = $8 AND version = $9 AND cancellation_status IS NULL
		RETURNING version, updated_at`,
		string(booking.Status), statusArg(booking.CancellationStatus), booking.CancellationDate, booking.ExpectedRefundDate,
		int64(booking.TotalPrice), int64(booking.CancellationCharges), int64(booking.RefundAmount),
		booking.ID, booking.Version,
	).Scan(&booking.Version, &booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Conflictf("booking %d changed while cancelling", booking.ID)
	}
	return translate(fmt.Sprintf("cancel booking %d", booking.ID), err)
}

func (r *PGBookingRepository) CompleteRefund(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `UPDATE bookings SET
			cancellation_status = $1,
			refund_completed_date = $2,
			version = version + 1,
			updated_at = now()
		WHERE id = $3 AND cancellation_status = $4
		RETURNING version, updated_at`,
		statusArg(booking.CancellationStatus), booking.RefundCompletedDate, booking.ID, string(domain.CancellationPending),
	).Scan(&booking.Version, &booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Conflictf("booking %d is no longer pending cancellation", booking.ID)
	}
	return translate(fmt.Sprintf("complete refund for booking %d", booking.ID), err)
}

func collectBookings(op string, rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, translate(op, rows.Err())
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                                   domain.Booking
		passengers, flightData              []byte
		seats, addons, paymentData          []byte
		status                              string
		cancellationStatus                  *string
		totalPrice, charges, refund         int64
		cancelledAt, expectedAt, refundedAt *time.Time
	)
	if err := row.Scan(&b.ID, &b.PNR, &b.UserID, &b.ContactEmail, &passengers, &seats, &addons, &paymentData,
		&b.FlightID, &flightData, &status, &cancellationStatus, &cancelledAt, &expectedAt, &refundedAt,
		&totalPrice, &charges, &refund, &b.Version, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return nil, fmt.Errorf("decode passengers of booking %d: %w", b.ID, err)
		}
	}
	if len(flightData) > 0 {
		var snapshot domain.FlightSnapshot
		if err := json.Unmarshal(flightData, &snapshot); err != nil {
			return nil, fmt.Errorf("decode flight data of booking %d: %w", b.ID, err)
		}
		b.FlightData = &snapshot
	}
	b.Seats, b.Addons, b.PaymentData = seats, addons, paymentData
	b.Status = domain.BookingStatus(status)

	if cancellationStatus != nil {
		cs := domain.CancellationStatus(*cancellationStatus)
		b.CancellationStatus = &cs
	}
	b.CancellationDate, b.ExpectedRefundDate, b.RefundCompletedDate = cancelledAt, expectedAt, refundedAt
	b.TotalPrice, b.CancellationCharges, b.RefundAmount = domain.Money(totalPrice), domain.Money(charges), domain.Money(refund)
	return &b, nil
}

func statusArg(status *domain.CancellationStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func rawOrNil(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

var _ BookingRepository = (*PGBookingRepository)(nil)
