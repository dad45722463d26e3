// Package reservation creates and cancels bookings.
//
// MakeReservation appends without re-checking availability: the caller is
// expected to have queried the availability engine just before. Book is the
// guarded path that validates the request and re-checks the table inside
// the ledger's exclusive section.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rzbill/tablo/internal/availability"
	"github.com/rzbill/tablo/internal/ledger"
	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/pkg/id"
	"github.com/rzbill/tablo/pkg/log"
)

var (
	ErrInvalidRequest   = errors.New("reservation: invalid request")
	ErrOutsideHours     = errors.New("reservation: time outside operating hours")
	ErrPastBooking      = errors.New("reservation: date and time must be in the future")
	ErrNoTable          = errors.New("reservation: no table available for party size")
	ErrTableUnavailable = errors.New("reservation: table not available")
)

// Service runs the reservation workflow over a ledger.
type Service struct {
	ledger ledger.Ledger
	engine *availability.Engine
	ids    *id.Generator
	now    func() time.Time
	loc    *time.Location
	logger log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for future-date checks.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithLocation sets the zone booking dates and times are interpreted in.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }

// WithIDGenerator replaces the booking id generator.
func WithIDGenerator(g *id.Generator) Option { return func(s *Service) { s.ids = g } }

// WithLogger sets the service logger.
func WithLogger(l log.Logger) Option { return func(s *Service) { s.logger = l } }

// New returns a Service. engine is only used by Book.
func New(l ledger.Ledger, engine *availability.Engine, opts ...Option) *Service {
	s := &Service{
		ledger: l,
		engine: engine,
		ids:    id.NewGenerator(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	if s.engine == nil {
		s.engine = availability.New(l, s.logger)
	}
	s.logger = s.logger.With(log.Component("reservation"))
	return s
}

// MakeReservation records an active booking and returns its id. It does
// not re-check availability or look for a conflicting booking on the same
// table; concurrent callers can double-book.
func (s *Service) MakeReservation(ctx context.Context, userID, restaurantID, date, clock, tableID string, party int) (string, error) {
	bookingID, err := s.ids.Next(existsIn(ctx, s.ledger))
	if err != nil {
		return "", err
	}
	b := model.Booking{
		ID:           bookingID,
		UserID:       userID,
		RestaurantID: restaurantID,
		Date:         date,
		Time:         clock,
		TableID:      tableID,
		PartySize:    party,
		Status:       model.StatusActive,
	}
	if err := s.ledger.Append(ctx, b); err != nil {
		return "", err
	}
	s.logger.Info("reservation made", bookingFields(b)...)
	return bookingID, nil
}

// CancelReservation cancels the user's active booking. It reports false
// when the booking is unknown, owned by someone else or already cancelled.
func (s *Service) CancelReservation(ctx context.Context, userID, bookingID string) (bool, error) {
	ok, err := s.ledger.Cancel(ctx, bookingID, userID)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("reservation cancelled", log.Str("booking_id", bookingID), log.Str("user_id", userID))
	}
	return ok, nil
}

// BookingHistory returns every booking of the user in insertion order.
func (s *Service) BookingHistory(ctx context.Context, userID string) ([]model.Booking, error) {
	out, err := s.ledger.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Booking{}
	}
	return out, nil
}

// GetBooking returns the booking with id, or ledger.ErrNotFound.
func (s *Service) GetBooking(ctx context.Context, bookingID string) (model.Booking, error) {
	return s.ledger.Get(ctx, bookingID)
}

// ValidateBookingTime reports whether date and clock name an instant
// strictly after now. Malformed input is false.
func (s *Service) ValidateBookingTime(date, clock string) bool {
	at, err := model.SlotTime(date, clock, s.loc)
	if err != nil {
		return false
	}
	return at.After(s.now())
}

// Request is a guarded booking request.
type Request struct {
	UserID     string           `json:"user_id" validate:"required"`
	Restaurant model.Restaurant `json:"-" validate:"-"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string           `json:"time" validate:"required,datetime=15:04"`
	// TableID is optional; the first free fitting table is used when empty.
	TableID   string `json:"table_id,omitempty"`
	PartySize int    `json:"party_size" validate:"gte=1"`
}

// Book validates req and records it only if the table is still free,
// checking and appending under the ledger's writer lock.
func (s *Service) Book(ctx context.Context, req Request) (model.Booking, error) {
	if err := validateRequest(req); err != nil {
		return model.Booking{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	r := req.Restaurant
	if r.ID == "" {
		return model.Booking{}, fmt.Errorf("%w: restaurant is required", ErrInvalidRequest)
	}
	if !availability.IsValidBookingTime(r, req.Time) {
		return model.Booking{}, fmt.Errorf("%w: %s is outside %s-%s", ErrOutsideHours, req.Time, r.Opening, r.Closing)
	}
	if !s.ValidateBookingTime(req.Date, req.Time) {
		return model.Booking{}, fmt.Errorf("%w: %s %s", ErrPastBooking, req.Date, req.Time)
	}
	if req.TableID != "" && !r.Tables.Has(req.TableID) {
		return model.Booking{}, fmt.Errorf("%w: unknown table %s", ErrInvalidRequest, req.TableID)
	}
	clock := model.CanonicalClock(req.Time)

	var booked model.Booking
	err := s.ledger.Exclusive(ctx, func(tx ledger.Tx) error {
		free, err := s.engine.AvailableTablesTx(ctx, tx, r, req.Date, clock, req.PartySize)
		if err != nil {
			return err
		}
		tableID, err := pickTable(free, req.TableID, req.PartySize)
		if err != nil {
			return err
		}
		bookingID, err := s.ids.Next(existsIn(ctx, tx))
		if err != nil {
			return err
		}
		booked = model.Booking{
			ID:           bookingID,
			UserID:       req.UserID,
			RestaurantID: r.ID,
			Date:         req.Date,
			Time:         clock,
			TableID:      tableID,
			PartySize:    req.PartySize,
			Status:       model.StatusActive,
		}
		return tx.Append(ctx, booked)
	})
	if err != nil {
		s.logger.Debug("booking rejected", log.Str("restaurant_id", r.ID), log.Err(err))
		return model.Booking{}, err
	}
	s.logger.Info("booking confirmed", bookingFields(booked)...)
	return booked, nil
}

func pickTable(free []model.TableSlot, want string, party int) (string, error) {
	if want == "" {
		if len(free) == 0 {
			return "", fmt.Errorf("%w: party of %d", ErrNoTable, party)
		}
		return free[0].TableID, nil
	}
	for _, slot := range free {
		if slot.TableID == want {
			return want, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTableUnavailable, want)
}

func existsIn(ctx context.Context, r ledger.Reader) id.Exists {
	return func(candidate string) (bool, error) {
		_, err := r.Get(ctx, candidate)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, ledger.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

func bookingFields(b model.Booking) []log.Field {
	return []log.Field{
		log.Str("booking_id", b.ID),
		log.Str("user_id", b.UserID),
		log.Str("restaurant_id", b.RestaurantID),
		log.Str("date", b.Date),
		log.Str("time", b.Time),
		log.Str("table_id", b.TableID),
		log.Int("party_size", b.PartySize),
	}
}
