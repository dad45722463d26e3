package id

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

const (
	// BookingPrefix starts every booking id.
	BookingPrefix = "B"
	// TokenLen is the number of random characters after the prefix.
	TokenLen = 8
	// DefaultMaxAttempts bounds collision retries in Next.
	DefaultMaxAttempts = 8
)

// ErrExhausted is returned when every attempt collided with an existing id.
var ErrExhausted = errors.New("id: could not generate a unique booking id")

// NewUUID is the random source. Tests replace it to force collisions.
var NewUUID = func() string { return uuid.NewString() }

// Exists reports whether a candidate id is already taken.
type Exists func(id string) (bool, error)

// Generator produces booking ids, retrying on collisions.
type Generator struct {
	mu          sync.Mutex
	maxAttempts int
}

// NewGenerator creates a Generator with DefaultMaxAttempts.
func NewGenerator() *Generator { return &Generator{maxAttempts: DefaultMaxAttempts} }

// WithMaxAttempts sets the collision retry bound. Values below 1 keep the
// current bound.
func (g *Generator) WithMaxAttempts(n int) *Generator {
	if n > 0 {
		g.maxAttempts = n
	}
	return g
}

// NewBookingID returns a fresh id without any registry check.
func NewBookingID() string {
	// the first 8 runes of a canonical UUID are hex digits before the first dash
	return BookingPrefix + NewUUID()[:TokenLen]
}

// Next returns a new booking id. When exists is non-nil every candidate is
// checked and regenerated on a hit, up to the attempt limit.
func (g *Generator) Next(exists Exists) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	attempts := g.maxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		candidate := NewBookingID()
		if exists == nil {
			return candidate, nil
		}
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// Valid reports whether s has the booking id shape.
func Valid(s string) bool {
	if len(s) != len(BookingPrefix)+TokenLen || s[:len(BookingPrefix)] != BookingPrefix {
		return false
	}
	for _, c := range s[len(BookingPrefix):] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
