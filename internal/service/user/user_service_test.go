package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 21
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var testNow = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func newTestService(repo *MockUserRepository) *UserService {
	return NewUserService(repo, "test-secret", zap.NewNop(),
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time { return testNow }),
	)
}

func storedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: 21, FullName: "Asha Rao", Email: "asha@example.com", Mobile: "9876543210", PasswordHash: string(hash)}
}

func TestUserService_Register(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "asha@example.com").Return(nil, domain.NotFoundf("user asha@example.com")).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "asha@example.com" &&
			u.PasswordHash != "s3cret" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) == nil
	})).Return(nil).Once()

	user, err := service.Register(ctx, RegisterInput{FullName: "Asha Rao", Email: " asha@example.com ", Mobile: "9876543210", Password: "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, int64(21), user.ID)
	assert.Equal(t, "Asha Rao", user.FullName)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "asha@example.com").Return(storedUser(t, "x"), nil).Once()

	_, err := service.Register(ctx, RegisterInput{FullName: "Asha", Email: "asha@example.com", Mobile: "1", Password: "p"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "email already registered")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_InsertRace(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "asha@example.com").Return(nil, domain.NotFoundf("user")).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.Conflictf("users_email_idx")).Once()

	_, err := service.Register(ctx, RegisterInput{FullName: "Asha", Email: "asha@example.com", Mobile: "1", Password: "p"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	service := newTestService(&MockUserRepository{})

	_, err := service.Register(context.Background(), RegisterInput{FullName: "Asha", Email: "asha@example.com", Password: "p"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Login(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "asha@example.com").Return(storedUser(t, "s3cret"), nil).Once()

	user, token, err := service.Login(ctx, LoginInput{Email: "asha@example.com", Password: "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, int64(21), user.ID)
	require.NotEmpty(t, token)

	claims, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(21), claims.UserID)
	assert.Equal(t, testNow.Add(DefaultTokenTTL), claims.ExpiresAt.Time.UTC())
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	testCases := []struct {
		name     string
		stored   *domain.User
		storeErr error
		password string
	}{
		{name: "Unknown email", storeErr: domain.NotFoundf("user"), password: "s3cret"},
		{name: "Wrong password", stored: storedUser(t, "s3cret"), password: "guess"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockUserRepository{}
			service := newTestService(mockRepo)
			if tc.stored != nil {
				mockRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(tc.stored, nil).Once()
			} else {
				mockRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(nil, tc.storeErr).Once()
			}

			_, token, err := service.Login(context.Background(), LoginInput{Email: "asha@example.com", Password: tc.password})

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, token)
		})
	}
}

func TestUserService_Login_StoreFailure(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := newTestService(mockRepo)
	outage := &domain.PersistenceError{Op: "get user", Err: errors.New("connection refused")}
	mockRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(nil, outage).Once()

	_, _, err := service.Login(context.Background(), LoginInput{Email: "asha@example.com", Password: "p"})

	var pe *domain.PersistenceError
	assert.ErrorAs(t, err, &pe)
}

func TestUserService_ParseToken_Rejects(t *testing.T) {
	service := newTestService(&MockUserRepository{})

	_, err := service.ParseToken("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = service.ParseToken(foreign)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(testNow.Add(-time.Minute))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = service.ParseToken(expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
