package model

import "fmt"

// Restaurant is a catalog entry. It is immutable after load.
type Restaurant struct {
	ID          string      `json:"restaurant_id"`
	Name        string      `json:"name"`
	Cuisine     string      `json:"cuisine_type"`
	Rating      float64     `json:"rating"`
	Location    string      `json:"location"`
	TotalTables int         `json:"total_tables"`
	Tables      TableConfig `json:"table_configuration"`
	Opening     string      `json:"opening_hours"`
	Closing     string      `json:"closing_hours"`
}

// Hours parses the opening and closing times.
func (r Restaurant) Hours() (open, close Clock, err error) {
	if open, err = ParseClock(r.Opening); err != nil {
		return 0, 0, err
	}
	if close, err = ParseClock(r.Closing); err != nil {
		return 0, 0, err
	}
	return open, close, nil
}

// RestaurantInfo is the display projection of a Restaurant.
type RestaurantInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Cuisine  string      `json:"cuisine"`
	Rating   float64     `json:"rating"`
	Location string      `json:"location"`
	Hours    string      `json:"hours"`
	Tables   TableConfig `json:"tables"`
}

// Info returns the display projection.
func (r Restaurant) Info() RestaurantInfo {
	return RestaurantInfo{
		ID:       r.ID,
		Name:     r.Name,
		Cuisine:  r.Cuisine,
		Rating:   r.Rating,
		Location: r.Location,
		Hours:    r.Opening + " - " + r.Closing,
		Tables:   r.Tables,
	}
}

// User is immutable reference data.
type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone_number"`
}

// Status is a booking's lifecycle state. Only active -> cancelled is allowed.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts the two persisted status values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

// Booking is one reservation record. Bookings are never deleted.
type Booking struct {
	ID           string `json:"booking_id"`
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	TableID      string `json:"table_id"`
	PartySize    int    `json:"party_size"`
	Status       Status `json:"status"`
}

// Active reports whether the booking still holds its table.
func (b Booking) Active() bool { return b.Status == StatusActive }

// SameSlot reports whether the booking is for restaurant/date/time.
func (b Booking) SameSlot(restaurantID, date, clock string) bool {
	return b.RestaurantID == restaurantID && b.Date == date && CanonicalClock(b.Time) == CanonicalClock(clock)
}
