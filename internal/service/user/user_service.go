package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 24 * time.Hour

var errInvalidCredentials = domain.Validationf("invalid email or password")

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login checks the credentials and returns the user with a signed token.
	Login(ctx context.Context, input LoginInput) (*domain.User, string, error)
	ParseToken(token string) (*Claims, error)
}

type RegisterInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

type UserService struct {
	users      repository.UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	log        *zap.Logger
	now        func() time.Time
}

type Option func(*UserService)

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *UserService) {
		s.tokenTTL = ttl
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *UserService) {
		s.bcryptCost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *UserService) {
		s.now = now
	}
}

func NewUserService(users repository.UserRepository, secret string, log *zap.Logger, opts ...Option) *UserService {
	s := &UserService{
		users:      users,
		secret:     []byte(secret),
		tokenTTL:   DefaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if blank(input.FullName, email, input.Mobile, input.Password) {
		return nil, domain.Validationf("all fields are required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Validationf("email already registered")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		Mobile:       strings.TrimSpace(input.Mobile),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Validationf("email already registered")
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// ParseToken verifies an HS256 token issued by Login.
func (s *UserService) ParseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, domain.Unauthorizedf("missing token")
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, domain.Unauthorizedf("invalid token: %v", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domain.Unauthorizedf("invalid token")
	}
	return claims, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

var _ UserUseCase = (*UserService)(nil)
