// Package availability computes free tables by diffing a restaurant's table
// inventory against the active bookings for a slot.
package availability

import (
	"context"
	"time"

	"github.com/rzbill/tablo/internal/ledger"
	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/pkg/log"
)

// Engine answers availability queries against a ledger.
type Engine struct {
	ledger ledger.Reader
	logger log.Logger
}

// New returns an Engine reading from l. A nil logger discards output.
func New(l ledger.Reader, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	return &Engine{ledger: l, logger: logger.With(log.Component("availability"))}
}

// AvailableTables lists the tables of restaurant r that seat at least party
// and hold no active booking at (date, clock), ordered by size then index.
// A malformed date or time, or a party below one, yields an empty result.
func (e *Engine) AvailableTables(ctx context.Context, r model.Restaurant, date, clock string, party int) ([]model.TableSlot, error) {
	return e.available(ctx, e.ledger, r, date, clock, party)
}

// AvailableTablesTx is AvailableTables evaluated inside an exclusive ledger
// section.
func (e *Engine) AvailableTablesTx(ctx context.Context, tx ledger.Tx, r model.Restaurant, date, clock string, party int) ([]model.TableSlot, error) {
	return e.available(ctx, tx, r, date, clock, party)
}

func (e *Engine) available(ctx context.Context, src ledger.Reader, r model.Restaurant, date, clock string, party int) ([]model.TableSlot, error) {
	if !validQuery(date, clock, party) {
		e.logger.Debug("availability query rejected",
			log.Str("restaurant_id", r.ID), log.Str("date", date), log.Str("time", clock), log.Int("party_size", party))
		return []model.TableSlot{}, nil
	}
	booked, err := src.ActiveTables(ctx, r.ID, date, clock)
	if err != nil {
		return nil, err
	}
	return Free(r.Tables, booked, party), nil
}

func validQuery(date, clock string, party int) bool {
	if party < 1 {
		return false
	}
	if _, err := model.ParseDate(date, time.UTC); err != nil {
		return false
	}
	_, err := model.ParseClock(clock)
	return err == nil
}

// Free enumerates tables in cfg seating at least party whose ids are not in
// booked. Smaller tables are never offered and every larger size is.
func Free(cfg model.TableConfig, booked map[string]struct{}, party int) []model.TableSlot {
	out := []model.TableSlot{}
	for _, slot := range cfg.Slots() {
		if slot.Size < party {
			continue
		}
		if _, taken := booked[slot.TableID]; taken {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// IsValidBookingTime reports whether clock parses as HH:MM and falls within
// the restaurant's opening and closing times, both inclusive.
func IsValidBookingTime(r model.Restaurant, clock string) bool {
	t, err := model.ParseClock(clock)
	if err != nil {
		return false
	}
	open, close, err := r.Hours()
	if err != nil {
		return false
	}
	return open <= t && t <= close
}
