package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/pkg/log"
)

// FileLedger stores bookings in a CSV file.
type FileLedger struct {
	path   string
	logger log.Logger

	mu     sync.Mutex
	closed bool
}

// OpenFile returns a ledger backed by path. The file is created on the first
// Append; a missing file reads as an empty ledger.
func OpenFile(path string, opts ...Option) (*FileLedger, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger: empty bookings path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ledger: create dir: %w", err)
		}
	}
	o := buildOptions(opts)
	l := &FileLedger{path: path, logger: o.logger.With(log.Str("backend", "csv"))}
	l.logger.Debug("ledger opened", log.Str("path", path))
	return l, nil
}

// Path returns the backing file path.
func (l *FileLedger) Path() string { return l.path }

func (l *FileLedger) All(ctx context.Context) ([]model.Booking, error) {
	if err := l.enter(ctx); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	return l.readLocked()
}

func (l *FileLedger) Get(ctx context.Context, id string) (model.Booking, error) {
	if err := l.enter(ctx); err != nil {
		return model.Booking{}, err
	}
	defer l.mu.Unlock()
	return l.getLocked(id)
}

func (l *FileLedger) ByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	if err := l.enter(ctx); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	all, err := l.readLocked()
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	for _, b := range all {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (l *FileLedger) ActiveTables(ctx context.Context, restaurantID, date, clock string) (map[string]struct{}, error) {
	if err := l.enter(ctx); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	return l.activeLocked(restaurantID, date, clock)
}

func (l *FileLedger) Append(ctx context.Context, b model.Booking) error {
	if err := l.enter(ctx); err != nil {
		return err
	}
	defer l.mu.Unlock()
	return l.appendLocked(b)
}

func (l *FileLedger) Cancel(ctx context.Context, bookingID, userID string) (bool, error) {
	if err := l.enter(ctx); err != nil {
		return false, err
	}
	defer l.mu.Unlock()

	all, err := l.readLocked()
	if err != nil {
		return false, err
	}
	for i := range all {
		b := &all[i]
		if b.ID == bookingID && b.UserID == userID && b.Active() {
			b.Status = model.StatusCancelled
			if err := l.rewriteLocked(all); err != nil {
				return false, err
			}
			l.logger.Info("booking cancelled", log.Str("booking_id", bookingID))
			return true, nil
		}
	}
	return false, nil
}

func (l *FileLedger) Exclusive(ctx context.Context, fn func(Tx) error) error {
	if err := l.enter(ctx); err != nil {
		return err
	}
	defer l.mu.Unlock()
	return fn(fileTx{l: l})
}

// Close marks the ledger closed. The file needs no teardown.
func (l *FileLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// enter takes the lock. The caller unlocks on success only.
func (l *FileLedger) enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	return nil
}

func (l *FileLedger) readLocked() ([]model.Booking, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	defer f.Close()
	return readRows(f, l.path)
}

func (l *FileLedger) getLocked(id string) (model.Booking, error) {
	all, err := l.readLocked()
	if err != nil {
		return model.Booking{}, err
	}
	for _, b := range all {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, ErrNotFound
}

func (l *FileLedger) activeLocked(restaurantID, date, clock string) (map[string]struct{}, error) {
	all, err := l.readLocked()
	if err != nil {
		return nil, err
	}
	return activeTables(all, restaurantID, date, clock), nil
}

func (l *FileLedger) appendLocked(b model.Booking) error {
	all, err := l.readLocked()
	if err != nil {
		return err
	}
	for _, existing := range all {
		if existing.ID == b.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, b.ID)
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ledger: open for append: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("ledger: stat: %w", err)
	}
	if info.Size() == 0 {
		err = writeRows(f, true, b)
	} else {
		// Rows follow the existing header's column order.
		var header []string
		if header, err = l.headerLocked(); err == nil {
			err = appendRows(f, header, b)
		}
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("ledger: append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("ledger: close: %w", err)
	}
	l.logger.Debug("booking appended", log.Str("booking_id", b.ID), log.Str("table_id", b.TableID))
	return nil
}

func (l *FileLedger) headerLocked() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readHeader(f, l.path)
}

// rewriteLocked replaces the file atomically: a crash leaves either the old
// or the new content.
func (l *FileLedger) rewriteLocked(all []model.Booking) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".bookings-*.tmp")
	if err != nil {
		return fmt.Errorf("ledger: temp file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	if err := writeRows(tmp, true, all...); err != nil {
		cleanup()
		return fmt.Errorf("ledger: rewrite: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("ledger: sync: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("ledger: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("ledger: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("ledger: rename: %w", err)
	}
	return nil
}

type fileTx struct{ l *FileLedger }

func (t fileTx) Get(ctx context.Context, id string) (model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return model.Booking{}, err
	}
	return t.l.getLocked(id)
}

func (t fileTx) ActiveTables(ctx context.Context, restaurantID, date, clock string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.l.activeLocked(restaurantID, date, clock)
}

func (t fileTx) Append(ctx context.Context, b model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.l.appendLocked(b)
}
