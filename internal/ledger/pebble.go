package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"github.com/rzbill/tablo/internal/model"
	pebblestore "github.com/rzbill/tablo/internal/storage/pebble"
	"github.com/rzbill/tablo/pkg/log"
)

// PebbleLedger stores bookings in a Pebble database. The caller owns db and
// closes it after the ledger.
type PebbleLedger struct {
	db     *pebblestore.DB
	logger log.Logger

	mu      sync.Mutex
	lastSeq uint64
	closed  atomic.Bool
}

// OpenPebble loads the last sequence number and returns a ledger over db.
func OpenPebble(db *pebblestore.DB, opts ...Option) (*PebbleLedger, error) {
	if db == nil {
		return nil, errors.New("ledger: nil pebble db")
	}
	o := buildOptions(opts)
	l := &PebbleLedger{db: db, logger: o.logger.With(log.Str("backend", "pebble"))}

	meta, err := db.Get(keyMeta)
	switch {
	case errors.Is(err, pebblestore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("ledger: read meta: %w", err)
	default:
		seq, ok := decodeSeq(meta)
		if !ok {
			return nil, fmt.Errorf("ledger: meta: %w", errCorrupt)
		}
		l.lastSeq = seq
	}
	l.logger.Debug("ledger opened", log.F("last_seq", l.lastSeq))
	return l, nil
}

func (l *PebbleLedger) All(ctx context.Context) ([]model.Booking, error) {
	if err := l.check(ctx); err != nil {
		return nil, err
	}
	var (
		out    []model.Booking
		decErr error
	)
	err := l.db.ScanPrefix(entryPrefix, func(_, v []byte) bool {
		b, err := decodeBooking(v)
		if err != nil {
			decErr = err
			return false
		}
		out = append(out, b)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, decErr
}

func (l *PebbleLedger) Get(ctx context.Context, id string) (model.Booking, error) {
	if err := l.check(ctx); err != nil {
		return model.Booking{}, err
	}
	b, _, err := l.lookup(id)
	return b, err
}

func (l *PebbleLedger) ByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	if err := l.check(ctx); err != nil {
		return nil, err
	}
	var seqs []uint64
	err := l.db.ScanPrefix(keyUserPrefix(userID), func(k, _ []byte) bool {
		if seq, ok := seqSuffix(k); ok {
			seqs = append(seqs, seq)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0, len(seqs))
	for _, seq := range seqs {
		b, err := l.entry(seq)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (l *PebbleLedger) ActiveTables(ctx context.Context, restaurantID, date, clock string) (map[string]struct{}, error) {
	if err := l.check(ctx); err != nil {
		return nil, err
	}
	return l.activeTables(restaurantID, date, clock)
}

func (l *PebbleLedger) Append(ctx context.Context, b model.Booking) error {
	if err := l.check(ctx); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(ctx, b)
}

func (l *PebbleLedger) Cancel(ctx context.Context, bookingID, userID string) (bool, error) {
	if err := l.check(ctx); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b, seq, err := l.lookup(bookingID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if b.UserID != userID || !b.Active() {
		return false, nil
	}
	b.Status = model.StatusCancelled
	val, err := encodeBooking(b)
	if err != nil {
		return false, err
	}

	batch := l.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(keyEntry(seq), val, nil); err != nil {
		return false, err
	}
	if err := batch.Delete(keySlot(b.RestaurantID, b.Date, b.Time, seq), nil); err != nil {
		return false, err
	}
	if err := l.db.CommitBatch(ctx, batch); err != nil {
		return false, fmt.Errorf("ledger: commit cancel: %w", err)
	}
	l.logger.Info("booking cancelled", log.Str("booking_id", bookingID))
	return true, nil
}

func (l *PebbleLedger) Exclusive(ctx context.Context, fn func(Tx) error) error {
	if err := l.check(ctx); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(pebbleTx{l: l})
}

// Close stops further use. The underlying db stays open.
func (l *PebbleLedger) Close() error {
	l.closed.Store(true)
	return nil
}

// Seq returns the last assigned sequence number.
func (l *PebbleLedger) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeq
}

func (l *PebbleLedger) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (l *PebbleLedger) entry(seq uint64) (model.Booking, error) {
	raw, err := l.db.Get(keyEntry(seq))
	if err != nil {
		return model.Booking{}, fmt.Errorf("ledger: entry %d: %w", seq, err)
	}
	b, err := decodeBooking(raw)
	if err != nil {
		return model.Booking{}, fmt.Errorf("ledger: entry %d: %w", seq, err)
	}
	return b, nil
}

func (l *PebbleLedger) lookup(id string) (model.Booking, uint64, error) {
	raw, err := l.db.Get(keyID(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return model.Booking{}, 0, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, 0, err
	}
	seq, ok := decodeSeq(raw)
	if !ok {
		return model.Booking{}, 0, fmt.Errorf("ledger: id index %s: %w", id, errCorrupt)
	}
	b, err := l.entry(seq)
	return b, seq, err
}

func (l *PebbleLedger) activeTables(restaurantID, date, clock string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	err := l.db.ScanPrefix(keySlotPrefix(restaurantID, date, clock), func(_, v []byte) bool {
		out[string(v)] = struct{}{}
		return true
	})
	return out, err
}

func (l *PebbleLedger) appendLocked(ctx context.Context, b model.Booking) error {
	taken, err := l.db.Has(keyID(b.ID))
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrDuplicateID, b.ID)
	}
	val, err := encodeBooking(b)
	if err != nil {
		return err
	}

	seq := l.lastSeq + 1
	batch := l.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(keyEntry(seq), val, nil); err != nil {
		return err
	}
	if err := batch.Set(keyID(b.ID), appendBE8(nil, seq), nil); err != nil {
		return err
	}
	if err := batch.Set(keyUser(b.UserID, seq), nil, nil); err != nil {
		return err
	}
	if b.Active() {
		if err := batch.Set(keySlot(b.RestaurantID, b.Date, b.Time, seq), []byte(b.TableID), nil); err != nil {
			return err
		}
	}
	if err := batch.Set(keyMeta, appendBE8(nil, seq), nil); err != nil {
		return err
	}
	if err := l.db.CommitBatch(ctx, batch); err != nil {
		return fmt.Errorf("ledger: commit append: %w", err)
	}
	l.lastSeq = seq
	l.logger.Debug("booking appended", log.Str("booking_id", b.ID), log.F("seq", seq))
	return nil
}

type pebbleTx struct{ l *PebbleLedger }

func (t pebbleTx) Get(ctx context.Context, id string) (model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return model.Booking{}, err
	}
	b, _, err := t.l.lookup(id)
	return b, err
}

func (t pebbleTx) ActiveTables(ctx context.Context, restaurantID, date, clock string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.l.activeTables(restaurantID, date, clock)
}

func (t pebbleTx) Append(ctx context.Context, b model.Booking) error {
	return t.l.appendLocked(ctx, b)
}
