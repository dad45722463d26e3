package ledger

import (
	"context"
	"errors"

	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/pkg/log"
)

var (
	// ErrNotFound is returned by Get for an unknown booking id.
	ErrNotFound = errors.New("ledger: booking not found")
	// ErrDuplicateID is returned by Append when the id is already recorded.
	ErrDuplicateID = errors.New("ledger: duplicate booking id")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("ledger: closed")
)

// Reader is the read side shared by Ledger and Tx.
type Reader interface {
	// Get returns the first booking recorded under id.
	Get(ctx context.Context, id string) (model.Booking, error)
	// ActiveTables returns the table ids held by active bookings for the slot.
	ActiveTables(ctx context.Context, restaurantID, date, clock string) (map[string]struct{}, error)
}

// Tx is handed to Exclusive callbacks. Its methods run under the ledger's
// writer lock and must not be used after the callback returns.
type Tx interface {
	Reader
	Append(ctx context.Context, b model.Booking) error
}

// Ledger is the durable booking store.
type Ledger interface {
	Reader
	// All returns every booking in insertion order.
	All(ctx context.Context) ([]model.Booking, error)
	Append(ctx context.Context, b model.Booking) error
	// ByUser returns the user's bookings in insertion order.
	ByUser(ctx context.Context, userID string) ([]model.Booking, error)
	// Cancel flips the first booking matching id, owner and active status.
	// It reports whether a record changed.
	Cancel(ctx context.Context, bookingID, userID string) (bool, error)
	// Exclusive runs fn holding the writer lock.
	Exclusive(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Option configures a ledger backend.
type Option func(*options)

type options struct {
	logger log.Logger
}

// WithLogger sets the logger used for operational messages.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	o.logger = o.logger.With(log.Component("ledger"))
	return o
}

func activeTables(all []model.Booking, restaurantID, date, clock string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, b := range all {
		if b.Active() && b.SameSlot(restaurantID, date, clock) {
			out[b.TableID] = struct{}{}
		}
	}
	return out
}
