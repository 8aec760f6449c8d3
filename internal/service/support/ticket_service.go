package support

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/identifier"
	"github.com/Domenick1991/airline-reservation/internal/kafka"
	"github.com/Domenick1991/airline-reservation/internal/repository"
	"go.uber.org/zap"
)

// createAttempts bounds retries when a generated number loses an insert race.
const createAttempts = 3

type TicketUseCase interface {
	Create(ctx context.Context, input CreateTicketInput) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SupportTicket, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error)
	UpdateStatus(ctx context.Context, id int64, input UpdateStatusInput) (*domain.SupportTicket, error)
}

// UserLookup confirms a ticket's author exists.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type CreateTicketInput struct {
	UserID  int64  `json:"userId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type UpdateStatusInput struct {
	Status   domain.TicketStatus `json:"status"`
	Response string              `json:"response"`
}

type TicketService struct {
	tickets  repository.TicketRepository
	users    UserLookup
	numbers  *identifier.TicketNumberGenerator
	producer Producer
	topic    string
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*TicketService)

func WithNumberGenerator(g *identifier.TicketNumberGenerator) Option {
	return func(s *TicketService) {
		s.numbers = g
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TicketService) {
		s.now = now
	}
}

// WithEvents publishes ticket_created events to topic.
func WithEvents(producer Producer, topic string) Option {
	return func(s *TicketService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewTicketService(tickets repository.TicketRepository, users UserLookup, log *zap.Logger, opts ...Option) *TicketService {
	s := &TicketService{
		tickets: tickets,
		users:   users,
		numbers: identifier.NewTicketNumberGenerator(tickets.ExistsByNumber),
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.SupportTicket, error) {
	if input.UserID <= 0 || blank(input.Name, input.Email, input.Subject, input.Message) {
		return nil, domain.Validationf("all fields are required")
	}

	exists, err := s.users.Exists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", input.UserID)
	}

	ticket := &domain.SupportTicket{
		UserID:   input.UserID,
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Subject:  strings.TrimSpace(input.Subject),
		Message:  input.Message,
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityMedium,
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		if ticket.TicketNumber, err = s.numbers.Generate(ctx); err != nil {
			return nil, err
		}
		err = s.tickets.Create(ctx, ticket)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		s.log.Debug("ticket number taken concurrently, regenerating", zap.String("ticket_number", ticket.TicketNumber))
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("support ticket created", zap.String("ticket_number", ticket.TicketNumber), zap.Int64("user_id", ticket.UserID))
	if s.producer != nil && s.topic != "" {
		pubCtx, cancel := context.WithTimeout(ctx, kafka.DefaultPublishTimeout)
		err := s.producer.Publish(pubCtx, s.topic, ticket.TicketNumber, kafka.NewTicketEvent(ticket, s.now()))
		cancel()
		if err != nil {
			s.log.Warn("failed to publish ticket event", zap.String("ticket_number", ticket.TicketNumber), zap.Error(err))
		}
	}
	return ticket, nil
}

func (s *TicketService) ListByUser(ctx context.Context, userID int64) ([]domain.SupportTicket, error) {
	if userID <= 0 {
		return nil, domain.Validationf("user ID is required")
	}
	return s.tickets.ListByUser(ctx, userID)
}

func (s *TicketService) GetByNumber(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error) {
	return s.tickets.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(ticketNumber)))
}

// UpdateStatus applies the non-empty fields of input. A response also stamps
// the response date.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, input UpdateStatusInput) (*domain.SupportTicket, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, domain.Validationf("unknown ticket status %q", input.Status)
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Status != "" {
		ticket.Status = input.Status
	}
	if response := strings.TrimSpace(input.Response); response != "" {
		now := s.now()
		ticket.Response = &response
		ticket.ResponseDate = &now
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

var _ TicketUseCase = (*TicketService)(nil)
