package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rzbill/tablo/internal/availability"
	"github.com/rzbill/tablo/internal/catalog"
	cfgpkg "github.com/rzbill/tablo/internal/config"
	"github.com/rzbill/tablo/internal/ledger"
	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/internal/query"
	"github.com/rzbill/tablo/internal/reservation"
	pebblestore "github.com/rzbill/tablo/internal/storage/pebble"
	"github.com/rzbill/tablo/pkg/id"
	"github.com/rzbill/tablo/pkg/log"
)

var (
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	ErrUnknownUser       = errors.New("unknown user")
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// Logger defaults to a discarding logger.
	Logger log.Logger
	// Now and Location drive future-date checks; they default to time.Now
	// and time.Local.
	Now      func() time.Time
	Location *time.Location
}

// Runtime holds the state of one session: the loaded catalog and an open
// ledger.
type Runtime struct {
	config  cfgpkg.Config
	logger  log.Logger
	catalog *catalog.Catalog
	db      *pebblestore.DB
	ledger  ledger.Ledger
	engine  *availability.Engine
	booking *reservation.Service
}

// Open loads the catalog and opens the configured ledger backend.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}

	cat, err := catalog.Load(cfg.Path(cfg.RestaurantsFile), cfg.Path(cfg.UsersFile), catalog.Options{
		StrictTableCount: cfg.Booking.StrictTableCount,
		Logger:           logger.With(log.Component("catalog")),
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	rt := &Runtime{config: cfg, logger: logger, catalog: cat}
	if err := rt.openLedger(); err != nil {
		return nil, err
	}

	rt.engine = availability.New(rt.ledger, logger)
	ropts := []reservation.Option{
		reservation.WithLogger(logger),
		reservation.WithIDGenerator(id.NewGenerator().WithMaxAttempts(cfg.Booking.IDAttempts)),
	}
	if opts.Now != nil {
		ropts = append(ropts, reservation.WithClock(opts.Now))
	}
	if opts.Location != nil {
		ropts = append(ropts, reservation.WithLocation(opts.Location))
	}
	rt.booking = reservation.New(rt.ledger, rt.engine, ropts...)
	return rt, nil
}

func (r *Runtime) openLedger() error {
	lopts := []ledger.Option{ledger.WithLogger(r.logger)}
	switch r.config.Ledger.Backend {
	case cfgpkg.BackendPebble:
		mode, err := pebblestore.ParseFsyncMode(r.config.Ledger.Fsync)
		if err != nil {
			return err
		}
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir:       r.config.StorePath(),
			Fsync:         mode,
			FsyncInterval: time.Duration(r.config.Ledger.FsyncIntervalMs) * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		l, err := ledger.OpenPebble(db, lopts...)
		if err != nil {
			_ = db.Close()
			return err
		}
		r.db, r.ledger = db, l
	default:
		l, err := ledger.OpenFile(r.config.Path(r.config.BookingsFile), lopts...)
		if err != nil {
			return err
		}
		r.ledger = l
	}
	return nil
}

// Close closes the ledger and any underlying store.
func (r *Runtime) Close() error {
	var errs []error
	if r.ledger != nil {
		errs = append(errs, r.ledger.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
	}
	return errors.Join(errs...)
}

// CheckHealth verifies the ledger can be read.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.ledger == nil {
		return errors.New("ledger not open")
	}
	if r.db != nil {
		it, err := r.db.NewIter(nil)
		if err != nil {
			return err
		}
		if err := it.Close(); err != nil {
			return err
		}
	}
	_, err := r.ledger.Get(ctx, "")
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return err
	}
	return nil
}

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Ledger exposes the open ledger.
func (r *Runtime) Ledger() ledger.Ledger { return r.ledger }

// Restaurants returns the catalog ordered by id.
func (r *Runtime) Restaurants() []model.Restaurant { return r.catalog.Restaurants() }

// Restaurant returns one restaurant or ErrUnknownRestaurant.
func (r *Runtime) Restaurant(restaurantID string) (model.Restaurant, error) {
	rest, ok := r.catalog.Restaurant(restaurantID)
	if !ok {
		return model.Restaurant{}, fmt.Errorf("%w: %s", ErrUnknownRestaurant, restaurantID)
	}
	return rest, nil
}

// Users returns every user ordered by id.
func (r *Runtime) Users() []model.User { return r.catalog.Users() }

// User returns one user or ErrUnknownUser.
func (r *Runtime) User(userID string) (model.User, error) {
	u, ok := r.catalog.User(userID)
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	return u, nil
}

func (r *Runtime) FilterRestaurants(c query.Criteria) []model.Restaurant {
	return query.FilterRestaurants(r.catalog, c)
}

func (r *Runtime) SearchRestaurants(term string) []model.Restaurant {
	return query.SearchRestaurants(r.catalog, term)
}

// WhereRestaurants filters with a CEL expression.
func (r *Runtime) WhereRestaurants(expr string) ([]model.Restaurant, error) {
	pred, err := query.CompileExpr(expr)
	if err != nil {
		return nil, err
	}
	return query.Where(r.catalog, pred), nil
}

func (r *Runtime) CuisineTypes() []string { return query.CuisineTypes(r.catalog) }

// TimeSlots lists bookable times for the restaurant on date. A malformed
// date yields no slots.
func (r *Runtime) TimeSlots(restaurantID, date string) ([]string, error) {
	rest, err := r.Restaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if _, err := model.ParseDate(date, time.UTC); err != nil {
		return []string{}, nil
	}
	step := time.Duration(r.config.Booking.SlotIntervalMinutes) * time.Minute
	return query.TimeSlots(rest, step), nil
}

// AvailableTables lists free tables for a party at a slot.
func (r *Runtime) AvailableTables(ctx context.Context, restaurantID, date, clock string, party int) ([]model.TableSlot, error) {
	rest, err := r.Restaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	return r.engine.AvailableTables(ctx, rest, date, clock, party)
}

// IsValidBookingTime reports whether clock is within the restaurant's hours.
func (r *Runtime) IsValidBookingTime(restaurantID, clock string) bool {
	rest, ok := r.catalog.Restaurant(restaurantID)
	return ok && availability.IsValidBookingTime(rest, clock)
}

// MakeReservation records a booking without any checks. References to
// unknown users or restaurants are stored as given.
func (r *Runtime) MakeReservation(ctx context.Context, userID, restaurantID, date, clock, tableID string, party int) (string, error) {
	return r.booking.MakeReservation(ctx, userID, restaurantID, date, clock, tableID, party)
}

// BookRequest is a guarded booking by ids.
type BookRequest struct {
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	TableID      string `json:"table_id,omitempty"`
	PartySize    int    `json:"party_size"`
}

// Book resolves the user and restaurant and runs the guarded booking flow.
func (r *Runtime) Book(ctx context.Context, req BookRequest) (model.Booking, error) {
	if _, err := r.User(req.UserID); err != nil {
		return model.Booking{}, err
	}
	rest, err := r.Restaurant(req.RestaurantID)
	if err != nil {
		return model.Booking{}, err
	}
	return r.booking.Book(ctx, reservation.Request{
		UserID:     req.UserID,
		Restaurant: rest,
		Date:       req.Date,
		Time:       req.Time,
		TableID:    req.TableID,
		PartySize:  req.PartySize,
	})
}

func (r *Runtime) CancelReservation(ctx context.Context, userID, bookingID string) (bool, error) {
	return r.booking.CancelReservation(ctx, userID, bookingID)
}

func (r *Runtime) BookingHistory(ctx context.Context, userID string) ([]model.Booking, error) {
	return r.booking.BookingHistory(ctx, userID)
}

// Booking returns a booking by id or ledger.ErrNotFound.
func (r *Runtime) Booking(ctx context.Context, bookingID string) (model.Booking, error) {
	return r.booking.GetBooking(ctx, bookingID)
}

// ExportLedger writes every booking as CSV.
func (r *Runtime) ExportLedger(ctx context.Context, w io.Writer) (int, error) {
	return ledger.Export(ctx, r.ledger, w)
}

// ImportLedger appends CSV bookings from src into the open ledger.
func (r *Runtime) ImportLedger(ctx context.Context, src io.Reader, name string) (ledger.ImportResult, error) {
	res, err := ledger.Import(ctx, src, name, r.ledger)
	if err != nil {
		return res, err
	}
	r.logger.Info("ledger import finished",
		log.Int("imported", res.Imported), log.Int("skipped", res.Skipped), log.Int("nonstandard", res.Nonstandard))
	return res, nil
}
