package flights

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
	SearchRoundTrip(ctx context.Context, q domain.FlightSearch) (*domain.RoundTrip, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Track(ctx context.Context, flightNumber string) (*domain.FlightStatus, error)
	Region(ctx context.Context, bounds domain.RegionBounds) ([]domain.FlightStatus, error)
}

type CreateFlightInput struct {
	Airline      string            `json:"airline" binding:"required"`
	FlightNumber string            `json:"flightNumber" binding:"required"`
	FromCode     string            `json:"fromCode" binding:"required,len=3"`
	ToCode       string            `json:"toCode" binding:"required,len=3"`
	DepartTime   string            `json:"departTime" binding:"required"`
	ArriveTime   string            `json:"arriveTime" binding:"required"`
	Duration     string            `json:"duration" binding:"required"`
	Price        domain.Money      `json:"price"`
	TravelType   domain.TravelType `json:"travelType" binding:"omitempty,oneof=domestic international"`
}

type SearchCache interface {
	GetSearch(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
	SetSearch(ctx context.Context, q domain.FlightSearch, flights []domain.Flight) error
}

type FlightService struct {
	repo      repository.FlightRepository
	cache     SearchCache
	generator *Generator
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*FlightService)

func WithGenerator(g *Generator) Option {
	return func(s *FlightService) {
		s.generator = g
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *FlightService) {
		s.now = now
	}
}

// NewFlightService accepts a nil cache; searches are then generated on every call.
func NewFlightService(repo repository.FlightRepository, cache SearchCache, log *zap.Logger, opts ...Option) *FlightService {
	s := &FlightService{
		repo:      repo,
		cache:     cache,
		generator: NewGenerator(nil),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.Airline == "" || input.FlightNumber == "" || input.DepartTime == "" ||
		input.ArriveTime == "" || input.Duration == "" {
		return nil, domain.Validationf("airline, flight number and schedule are required")
	}
	if len(input.FromCode) != 3 || len(input.ToCode) != 3 {
		return nil, domain.Validationf("airport codes must have 3 letters")
	}
	if strings.EqualFold(input.FromCode, input.ToCode) {
		return nil, domain.Validationf("origin and destination must differ")
	}
	if input.Price <= 0 {
		return nil, domain.Validationf("price must be positive")
	}
	if input.TravelType == "" {
		input.TravelType = domain.TravelDomestic
	}

	flight := &domain.Flight{
		Airline:      input.Airline,
		FlightNumber: input.FlightNumber,
		FromCode:     strings.ToUpper(input.FromCode),
		ToCode:       strings.ToUpper(input.ToCode),
		DepartTime:   input.DepartTime,
		ArriveTime:   input.ArriveTime,
		Duration:     input.Duration,
		Price:        input.Price,
		TravelType:   input.TravelType,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}

	s.log.Info("flight created", zap.Int64("id", flight.ID), zap.String("flight_number", flight.FlightNumber))
	return flight, nil
}

// Search generates one leg; trip fields on q are ignored.
func (s *FlightService) Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	q = q.Leg()
	if q.From == "" || q.To == "" || q.Date == "" {
		return nil, domain.Validationf("from, to and date are required")
	}
	if strings.EqualFold(q.From, q.To) {
		return nil, domain.Validationf("origin and destination must differ")
	}
	if q.TravelType == "" {
		q.TravelType = domain.TravelDomestic
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, q); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("flight search cache read failed", zap.Error(err))
		}
	}

	flights := s.generator.Generate(q)
	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, q, flights); err != nil {
			s.log.Warn("flight search cache write failed", zap.Error(err))
		}
	}
	return flights, nil
}

// SearchRoundTrip generates the outbound leg and the reversed leg on the return date.
func (s *FlightService) SearchRoundTrip(ctx context.Context, q domain.FlightSearch) (*domain.RoundTrip, error) {
	if q.ReturnDate == "" {
		return nil, domain.Validationf("returnDate is required for a round trip")
	}
	outbound, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	inbound, err := s.Search(ctx, q.Reverse())
	if err != nil {
		return nil, err
	}
	return &domain.RoundTrip{Outbound: outbound, Return: inbound}, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Track(_ context.Context, flightNumber string) (*domain.FlightStatus, error) {
	flightNumber = strings.TrimSpace(flightNumber)
	if flightNumber == "" {
		return nil, domain.Validationf("flight number is required")
	}
	status := s.generator.Track(flightNumber, s.now().UnixMilli())
	return &status, nil
}

// Region simulates the traffic currently inside the bounds.
func (s *FlightService) Region(_ context.Context, bounds domain.RegionBounds) ([]domain.FlightStatus, error) {
	if bounds.LaMin == nil || bounds.LoMin == nil || bounds.LaMax == nil || bounds.LoMax == nil {
		return nil, domain.Validationf("missing region bounds")
	}
	laMin, loMin, laMax, loMax := *bounds.LaMin, *bounds.LoMin, *bounds.LaMax, *bounds.LoMax
	if laMin < -90 || laMax > 90 || loMin < -180 || loMax > 180 {
		return nil, domain.Validationf("region bounds out of range")
	}
	if laMin > laMax || loMin > loMax {
		return nil, domain.Validationf("region minimum exceeds maximum")
	}
	return s.generator.Region(laMin, loMin, laMax, loMax, s.now().UnixMilli()), nil
}

var _ FlightUseCase = (*FlightService)(nil)
