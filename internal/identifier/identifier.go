package identifier

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	TicketPrefix             = "TKT"
	ticketSpace              = 1_000_000
	DefaultTicketMaxAttempts = 20
)

var ErrExhausted = errors.New("could not generate a unique identifier")

// IntN returns a uniform random integer in [0, n).
type IntN func(n int) int

// PNRGenerator produces booking references: three letters and three digits.
// It does not check the store; the unique index on bookings.pnr does.
type PNRGenerator struct {
	rand IntN
}

func NewPNRGenerator() *PNRGenerator {
	return &PNRGenerator{rand: rand.IntN}
}

func NewPNRGeneratorWithSource(src IntN) *PNRGenerator {
	return &PNRGenerator{rand: src}
}

func (g *PNRGenerator) Generate() string {
	var sb strings.Builder
	sb.Grow(6)
	for i := 0; i < 3; i++ {
		sb.WriteByte(letters[g.rand(len(letters))])
	}
	for i := 0; i < 3; i++ {
		sb.WriteByte(byte('0' + g.rand(10)))
	}
	return sb.String()
}

// ValidPNR reports whether s has the PNR shape, ignoring case.
func ValidPNR(s string) bool {
	if len(s) != 6 {
		return false
	}
	s = strings.ToUpper(s)
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	for i := 3; i < 6; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ExistsFunc reports whether an identifier is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// TicketNumberGenerator produces support ticket numbers (TKT + 6 digits) and
// regenerates until the store reports the number as free.
type TicketNumberGenerator struct {
	exists      ExistsFunc
	rand        IntN
	maxAttempts int
}

func NewTicketNumberGenerator(exists ExistsFunc) *TicketNumberGenerator {
	return &TicketNumberGenerator{exists: exists, rand: rand.IntN, maxAttempts: DefaultTicketMaxAttempts}
}

func (g *TicketNumberGenerator) WithSource(src IntN) *TicketNumberGenerator {
	g.rand = src
	return g
}

func (g *TicketNumberGenerator) WithMaxAttempts(n int) *TicketNumberGenerator {
	if n > 0 {
		g.maxAttempts = n
	}
	return g
}

func FormatTicketNumber(n int) string {
	return fmt.Sprintf("%s%06d", TicketPrefix, n)
}

func (g *TicketNumberGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := FormatTicketNumber(g.rand(ticketSpace))
		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check ticket number %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, g.maxAttempts)
}
