package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// CancellationStatus is nil on a booking that was never cancelled.
type CancellationStatus string

const (
	CancellationPending   CancellationStatus = "pending_cancellation"
	CancellationCancelled CancellationStatus = "cancelled"
	CancellationRefunded  CancellationStatus = "refunded"
)

type Passenger struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// FlightSnapshot is the copy of the flight the customer saw when booking.
type FlightSnapshot struct {
	Airline      string `json:"airline,omitempty"`
	FlightNumber string `json:"flightNumber,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	DepartTime   string `json:"departTime,omitempty"`
	ArriveTime   string `json:"arriveTime,omitempty"`
	Price        Money  `json:"price"`
	TravelType   string `json:"travelType,omitempty"`
	Date         string `json:"date,omitempty"`
}

type Booking struct {
	ID           int64           `json:"id"`
	PNR          string          `json:"pnr"`
	UserID       *int64          `json:"userId"`
	ContactEmail string          `json:"contactEmail,omitempty"`
	Passengers   []Passenger     `json:"passengers"`
	Seats        json.RawMessage `json:"seats,omitempty"`
	Addons       json.RawMessage `json:"addons,omitempty"`
	PaymentData  json.RawMessage `json:"paymentData,omitempty"`
	FlightID     *int64          `json:"flightId"`
	FlightData   *FlightSnapshot `json:"flightData"`

	Status              BookingStatus       `json:"status"`
	CancellationStatus  *CancellationStatus `json:"cancellationStatus"`
	CancellationDate    *time.Time          `json:"cancellationDate"`
	ExpectedRefundDate  *time.Time          `json:"expectedRefundDate"`
	RefundCompletedDate *time.Time          `json:"refundCompletedDate"`

	TotalPrice          Money `json:"totalPrice"`
	CancellationCharges Money `json:"cancellationCharges"`
	RefundAmount        Money `json:"refundAmount"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InCancellation reports whether the booking is in the given cancellation state.
func (b *Booking) InCancellation(status CancellationStatus) bool {
	return b.CancellationStatus != nil && *b.CancellationStatus == status
}
