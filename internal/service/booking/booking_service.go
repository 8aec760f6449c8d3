package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/cancellation"
	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/identifier"
	"github.com/Domenick1991/airline-reservation/internal/kafka"
	"github.com/Domenick1991/airline-reservation/internal/metrics"
	"github.com/Domenick1991/airline-reservation/internal/repository"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const CheckStatusMessage = "Cancellation status retrieved successfully"

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	List(ctx context.Context, userID *int64) ([]domain.Booking, error)
	// CancelBooking starts the cancellation of booking id and returns the
	// updated booking with a message for the customer.
	CancelBooking(ctx context.Context, id int64) (*domain.Booking, string, error)
	CheckCancellationStatus(ctx context.Context, pnr, lastName string) (*domain.Booking, error)
	// CheckCancellations runs one reconciliation pass over pending
	// cancellations and returns how many were completed.
	CheckCancellations(ctx context.Context) (int, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	producer           Producer
	pnr                *identifier.PNRGenerator
	policy             cancellation.Policy
	log                *zap.Logger
	now                func() time.Time
	bookingTopic       string
	notificationsTopic string
	publishTimeout     time.Duration
}

type CreateBookingInput struct {
	PNR          string                 `json:"pnr"`
	UserID       *int64                 `json:"userId"`
	ContactEmail string                 `json:"contactEmail" binding:"omitempty,email"`
	Passengers   []domain.Passenger     `json:"passengers" binding:"required,min=1"`
	Seats        json.RawMessage        `json:"seats"`
	Addons       json.RawMessage        `json:"addons"`
	PaymentData  json.RawMessage        `json:"paymentData"`
	FlightID     *int64                 `json:"flightId"`
	FlightData   *domain.FlightSnapshot `json:"flightData"`
	TotalPrice   domain.Money           `json:"totalPrice"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPolicy(p cancellation.Policy) BookingServiceOption {
	return func(s *BookingService) {
		s.policy = p
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// WithPublishTimeout bounds each event write so a slow broker cannot stall
// cancellations.
func WithPublishTimeout(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.publishTimeout = d
	}
}

func WithPNRGenerator(g *identifier.PNRGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.pnr = g
	}
}

// NewBookingService accepts a nil producer; events are then not published.
func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	bookingTopic string,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		flights:        flights,
		producer:       producer,
		bookingTopic:   bookingTopic,
		pnr:            identifier.NewPNRGenerator(),
		policy:         cancellation.DefaultPolicy(),
		log:            log,
		now:            time.Now,
		publishTimeout: kafka.DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if len(input.Passengers) == 0 {
		return nil, domain.Validationf("at least one passenger is required")
	}
	for i, p := range input.Passengers {
		if strings.TrimSpace(p.LastName) == "" {
			return nil, domain.Validationf("passenger %d has no last name", i+1)
		}
	}

	pnr := strings.ToUpper(strings.TrimSpace(input.PNR))
	if pnr == "" {
		pnr = s.pnr.Generate()
	} else if !identifier.ValidPNR(pnr) {
		return nil, domain.Validationf("pnr %q must be 3 letters followed by 3 digits", input.PNR)
	}

	booking := &domain.Booking{
		PNR:          pnr,
		UserID:       input.UserID,
		ContactEmail: input.ContactEmail,
		Passengers:   input.Passengers,
		Seats:        input.Seats,
		Addons:       input.Addons,
		PaymentData:  input.PaymentData,
		FlightID:     input.FlightID,
		FlightData:   input.FlightData,
		TotalPrice:   input.TotalPrice,
		Status:       domain.BookingStatusConfirmed,
	}
	booking.TotalPrice = cancellation.ResolveTotalPrice(booking, s.linkedFlight(ctx, booking))

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("booking created", zap.String("pnr", booking.PNR), zap.Int64("booking_id", booking.ID))
	s.publish(ctx, booking.PNR, kafka.NewBookingEvent(kafka.EventBookingCreated, booking, s.now()))
	return booking, nil
}

func (s *BookingService) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	if strings.TrimSpace(pnr) == "" {
		return nil, domain.Validationf("pnr is required")
	}
	return s.bookings.GetByPNR(ctx, strings.TrimSpace(pnr))
}

func (s *BookingService) List(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	return s.bookings.List(ctx, userID)
}

func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*domain.Booking, string, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	outcome, err := s.policy.Request(booking, s.linkedFlight(ctx, booking), s.now())
	if err != nil {
		return nil, "", err
	}
	if err := s.bookings.ApplyCancellation(ctx, booking); err != nil {
		return nil, "", err
	}

	metrics.CancellationsRequested.Inc()
	s.log.Info("cancellation requested",
		zap.String("pnr", booking.PNR),
		zap.Int64("booking_id", booking.ID),
		zap.Stringer("refund_amount", booking.RefundAmount),
		zap.Int("refund_days", outcome.Days),
	)
	s.publish(ctx, booking.PNR, kafka.NewBookingEvent(kafka.EventCancellationRequested, booking, s.now()))
	return booking, outcome.Message, nil
}

func (s *BookingService) CheckCancellationStatus(ctx context.Context, pnr, lastName string) (*domain.Booking, error) {
	pnr, lastName = strings.TrimSpace(pnr), strings.TrimSpace(lastName)
	if pnr == "" || lastName == "" {
		return nil, domain.Validationf("PNR and last name are required")
	}

	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}

	matches := lo.ContainsBy(booking.Passengers, func(p domain.Passenger) bool {
		return strings.EqualFold(strings.TrimSpace(p.LastName), lastName)
	})
	if !matches {
		return nil, domain.Forbiddenf("last name does not match the booking")
	}
	return booking, nil
}

func (s *BookingService) CheckCancellations(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() { metrics.ReconcileDuration.Observe(time.Since(started).Seconds()) }()

	pending, err := s.bookings.ListPendingCancellations(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaDrift) {
			metrics.ReconcileRuns.WithLabelValues("schema_drift").Inc()
			s.log.Warn("skipping cancellation reconciliation, store schema is behind", zap.Error(err))
			return 0, nil
		}
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return 0, err
	}

	now := s.now()
	updated := 0
	for _, booking := range pending {
		if !cancellation.Reconcile(&booking, now) {
			continue
		}
		if err := s.bookings.CompleteRefund(ctx, &booking); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.log.Debug("refund already completed elsewhere", zap.String("pnr", booking.PNR))
				continue
			}
			metrics.ReconcileFailures.Inc()
			s.log.Error("failed to complete refund", zap.String("pnr", booking.PNR), zap.Error(err))
			continue
		}

		updated++
		metrics.RefundsCompleted.Inc()
		s.log.Info("refund completed", zap.String("pnr", booking.PNR), zap.Int64("booking_id", booking.ID))
		s.publish(ctx, booking.PNR, kafka.NewBookingEvent(kafka.EventRefundCompleted, &booking, now))
	}

	metrics.ReconcileRuns.WithLabelValues("ok").Inc()
	return updated, nil
}

// linkedFlight loads the referenced flight only when the booking carries no
// price of its own.
func (s *BookingService) linkedFlight(ctx context.Context, b *domain.Booking) *domain.Flight {
	if b.FlightID == nil || s.flights == nil {
		return nil
	}
	if b.TotalPrice > 0 || (b.FlightData != nil && b.FlightData.Price > 0) {
		return nil
	}
	flight, err := s.flights.GetByID(ctx, *b.FlightID)
	if err != nil {
		s.log.Warn("linked flight unavailable", zap.Int64("flight_id", *b.FlightID), zap.Error(err))
		return nil
	}
	return flight
}

func (s *BookingService) publish(ctx context.Context, key string, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	if err := s.publishTo(ctx, s.bookingTopic, key, event); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", event.Type), zap.String("key", key), zap.Error(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.publishTo(ctx, s.notificationsTopic, key, event); err != nil {
			s.log.Warn("failed to publish notification", zap.String("type", event.Type), zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *BookingService) publishTo(ctx context.Context, topic, key string, event kafka.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	return s.producer.Publish(ctx, topic, key, event)
}

var _ BookingUseCase = (*BookingService)(nil)
