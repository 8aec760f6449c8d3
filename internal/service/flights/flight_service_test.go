package flights

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSearch(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetSearch(ctx context.Context, q domain.FlightSearch, flights []domain.Flight) error {
	args := m.Called(ctx, q, flights)
	return args.Error(0)
}

func newTestService(repo *MockFlightRepository, cache SearchCache) *FlightService {
	return NewFlightService(repo, cache, zap.NewNop(),
		WithGenerator(NewGenerator(rand.New(rand.NewPCG(1, 2)))),
		WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000) }),
	)
}

func TestFlightService_Search_CacheMiss(t *testing.T) {
	mockCache := &MockCache{}
	service := newTestService(&MockFlightRepository{}, mockCache)

	ctx := context.Background()
	q := domain.FlightSearch{From: "DEL", To: "BOM", TravelType: domain.TravelDomestic, Date: "2025-01-10"}

	mockCache.On("GetSearch", ctx, q).Return(([]domain.Flight)(nil), nil).Once()
	mockCache.On("SetSearch", ctx, q, mock.AnythingOfType("[]domain.Flight")).Return(nil).Once()

	result, err := service.Search(ctx, q)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result), 3)
	assert.LessOrEqual(t, len(result), 6)
	for i, f := range result {
		assert.Equal(t, "DEL", f.FromCode)
		assert.Equal(t, "BOM", f.ToCode)
		assert.Equal(t, domain.TravelDomestic, f.TravelType)
		assert.GreaterOrEqual(t, f.Price, domain.NewMoney(2000))
		assert.Less(t, f.Price, domain.NewMoney(15000))
		if i > 0 {
			assert.LessOrEqual(t, result[i-1].DepartTime, f.DepartTime)
		}
	}

	mockCache.AssertExpectations(t)
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	mockCache := &MockCache{}
	service := newTestService(&MockFlightRepository{}, mockCache)

	ctx := context.Background()
	q := domain.FlightSearch{From: "DXB", To: "LHR", TravelType: domain.TravelInternational, Date: "2025-02-01"}
	cached := []domain.Flight{{Airline: "Emirates", FlightNumber: "EK 501", FromCode: "DXB", ToCode: "LHR"}}

	mockCache.On("GetSearch", ctx, q).Return(cached, nil).Once()

	result, err := service.Search(ctx, q)

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	mockCache.AssertExpectations(t)
	mockCache.AssertNotCalled(t, "SetSearch")
}

func TestFlightService_Search_CacheErrorFallsBackToGenerator(t *testing.T) {
	mockCache := &MockCache{}
	service := newTestService(&MockFlightRepository{}, mockCache)

	ctx := context.Background()
	q := domain.FlightSearch{From: "DXB", To: "LHR", TravelType: domain.TravelInternational, Date: "2025-02-01"}

	mockCache.On("GetSearch", ctx, q).Return(([]domain.Flight)(nil), errors.New("cache error")).Once()
	mockCache.On("SetSearch", ctx, q, mock.AnythingOfType("[]domain.Flight")).Return(errors.New("cache error")).Once()

	result, err := service.Search(ctx, q)

	require.NoError(t, err)
	assert.NotEmpty(t, result)
	for _, f := range result {
		assert.GreaterOrEqual(t, f.Price, domain.NewMoney(300))
		assert.Less(t, f.Price, domain.NewMoney(1500))
	}
	mockCache.AssertExpectations(t)
}

func TestFlightService_Search_Validation(t *testing.T) {
	service := newTestService(&MockFlightRepository{}, nil)

	_, err := service.Search(context.Background(), domain.FlightSearch{From: "DEL", To: "del", Date: "2025-01-10"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Search(context.Background(), domain.FlightSearch{From: "DEL", To: "BOM"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlightService_NoCache(t *testing.T) {
	service := newTestService(&MockFlightRepository{}, nil)

	result, err := service.Search(context.Background(), domain.FlightSearch{From: "del", To: "blr", Date: "2025-01-10"})

	require.NoError(t, err)
	assert.NotEmpty(t, result)
	assert.Equal(t, "DEL", result[0].FromCode)
	assert.Equal(t, domain.TravelDomestic, result[0].TravelType)
}

func TestFlightService_GetByID_Success(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil)

	ctx := context.Background()
	flight := &domain.Flight{ID: 4, Airline: "IndiGo", FlightNumber: "6E 204", Price: domain.NewMoney(4500)}

	mockRepo.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()

	result, err := service.GetByID(ctx, 4)

	assert.NoError(t, err)
	assert.Equal(t, flight, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(999)).Return(nil, domain.NotFoundf("flight 999")).Once()

	result, err := service.GetByID(ctx, 999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Track(t *testing.T) {
	service := newTestService(&MockFlightRepository{}, nil)

	status, err := service.Track(context.Background(), "6E 123")

	require.NoError(t, err)
	assert.Equal(t, "6E 123", status.FlightNumber)
	assert.Equal(t, "in-flight", status.Status)
	assert.Equal(t, int64(1_700_000_000_000), status.Timestamp)
	assert.GreaterOrEqual(t, status.Altitude, 10000)
	assert.Less(t, status.Altitude, 45000)
	assert.InDelta(t, 0, status.Latitude, 90)
	assert.InDelta(t, 0, status.Longitude, 180)

	_, err = service.Track(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlightService_List(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil)

	ctx := context.Background()
	stored := []domain.Flight{
		{ID: 1, Airline: "IndiGo", FlightNumber: "6E 204", FromCode: "DEL", ToCode: "BOM"},
		{ID: 2, Airline: "Emirates", FlightNumber: "EK 501", FromCode: "DXB", ToCode: "LHR"},
	}
	mockRepo.On("List", ctx).Return(stored, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Create(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newTestService(mockRepo, nil)

	ctx := context.Background()
	input := CreateFlightInput{
		Airline:      "Vistara",
		FlightNumber: "UK 811",
		FromCode:     "del",
		ToCode:       "blr",
		DepartTime:   "06:10",
		ArriveTime:   "08:55",
		Duration:     "2h 45m",
		Price:        domain.NewMoney(6400),
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.FromCode == "DEL" && f.ToCode == "BLR" && f.TravelType == domain.TravelDomestic
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Flight).ID = 12
	}).Return(nil).Once()

	flight, err := service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(12), flight.ID)
	assert.Equal(t, domain.NewMoney(6400), flight.Price)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Create_Validation(t *testing.T) {
	valid := CreateFlightInput{
		Airline: "Vistara", FlightNumber: "UK 811", FromCode: "DEL", ToCode: "BLR",
		DepartTime: "06:10", ArriveTime: "08:55", Duration: "2h 45m", Price: domain.NewMoney(6400),
	}
	tests := []struct {
		name   string
		mutate func(in *CreateFlightInput)
	}{
		{"missing airline", func(in *CreateFlightInput) { in.Airline = "" }},
		{"short code", func(in *CreateFlightInput) { in.FromCode = "DE" }},
		{"same airports", func(in *CreateFlightInput) { in.ToCode = "del" }},
		{"zero price", func(in *CreateFlightInput) { in.Price = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockFlightRepository{}
			service := newTestService(mockRepo, nil)

			input := valid
			tt.mutate(&input)
			_, err := service.Create(context.Background(), input)

			assert.ErrorIs(t, err, domain.ErrValidation)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestFlightService_SearchRoundTrip(t *testing.T) {
	mockCache := &MockCache{}
	service := newTestService(&MockFlightRepository{}, mockCache)

	ctx := context.Background()
	q := domain.FlightSearch{
		From: "DEL", To: "BOM", TravelType: domain.TravelDomestic, Date: "2025-01-10",
		TripType: domain.TripRound, ReturnDate: "2025-01-17",
	}
	outboundKey := domain.FlightSearch{From: "DEL", To: "BOM", TravelType: domain.TravelDomestic, Date: "2025-01-10"}
	returnKey := domain.FlightSearch{From: "BOM", To: "DEL", TravelType: domain.TravelDomestic, Date: "2025-01-17"}
	cached := []domain.Flight{{Airline: "IndiGo", FlightNumber: "6E 204", FromCode: "DEL", ToCode: "BOM"}}

	mockCache.On("GetSearch", ctx, outboundKey).Return(cached, nil).Once()
	mockCache.On("GetSearch", ctx, returnKey).Return(([]domain.Flight)(nil), nil).Once()
	mockCache.On("SetSearch", ctx, returnKey, mock.AnythingOfType("[]domain.Flight")).Return(nil).Once()

	trip, err := service.SearchRoundTrip(ctx, q)

	require.NoError(t, err)
	assert.Equal(t, cached, trip.Outbound)
	require.NotEmpty(t, trip.Return)
	for _, f := range trip.Return {
		assert.Equal(t, "BOM", f.FromCode)
		assert.Equal(t, "DEL", f.ToCode)
		assert.Equal(t, "2025-01-17", f.Date)
	}
	mockCache.AssertExpectations(t)
}

func TestFlightService_SearchRoundTrip_RequiresReturnDate(t *testing.T) {
	service := newTestService(&MockFlightRepository{}, nil)

	_, err := service.SearchRoundTrip(context.Background(), domain.FlightSearch{
		From: "DEL", To: "BOM", Date: "2025-01-10", TripType: domain.TripRound,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlightService_Region(t *testing.T) {
	service := newTestService(&MockFlightRepository{}, nil)
	bound := func(v float64) *float64 { return &v }

	statuses, err := service.Region(context.Background(), domain.RegionBounds{
		LaMin: bound(8), LoMin: bound(68), LaMax: bound(37), LoMax: bound(97),
	})

	require.NoError(t, err)
	require.Len(t, statuses, 5)
	for _, s := range statuses {
		assert.Regexp(t, `^(6E|AI|SG|UK|EK|SQ|BA)\d{4}$`, s.FlightNumber)
		assert.GreaterOrEqual(t, s.Latitude, 8.0)
		assert.LessOrEqual(t, s.Latitude, 37.0)
		assert.GreaterOrEqual(t, s.Longitude, 68.0)
		assert.LessOrEqual(t, s.Longitude, 97.0)
		assert.Equal(t, int64(1_700_000_000_000), s.Timestamp)
	}
}

func TestFlightService_Region_Validation(t *testing.T) {
	service := newTestService(&MockFlightRepository{}, nil)
	bound := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		bounds domain.RegionBounds
	}{
		{"missing", domain.RegionBounds{LaMin: bound(8), LoMin: bound(68), LaMax: bound(37)}},
		{"inverted", domain.RegionBounds{LaMin: bound(37), LoMin: bound(68), LaMax: bound(8), LoMax: bound(97)}},
		{"out of range", domain.RegionBounds{LaMin: bound(-91), LoMin: bound(68), LaMax: bound(37), LoMax: bound(97)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Region(context.Background(), tt.bounds)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestArrivalTime(t *testing.T) {
	tests := []struct {
		depart         string
		hours, minutes int
		want           string
	}{
		{"08:15", 2, 30, "10:45"},
		{"22:50", 3, 20, "02:10 +1"},
		{"23:00", 17, 0, "16:00 +1"},
		{"bad", 1, 0, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, arrivalTime(tt.depart, tt.hours, tt.minutes), tt.depart)
	}
}
