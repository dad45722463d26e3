// Package query filters and searches the restaurant catalog and derives
// bookable time slots. Every result is ordered by restaurant id.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/rzbill/tablo/internal/model"
)

// DefaultSlotStep is the spacing of TimeSlots when no step is given.
const DefaultSlotStep = 30 * time.Minute

// Source supplies the restaurants to query, ordered by id.
type Source interface {
	Restaurants() []model.Restaurant
}

// Criteria narrows FilterRestaurants. Zero values match everything.
type Criteria struct {
	// Cuisine matches case-insensitively and exactly.
	Cuisine string `json:"cuisine,omitempty"`
	// MinRating is an inclusive lower bound.
	MinRating *float64 `json:"min_rating,omitempty"`
}

// FilterRestaurants returns restaurants matching every set criterion.
func FilterRestaurants(src Source, c Criteria) []model.Restaurant {
	return Where(src, func(r model.Restaurant) bool {
		if c.Cuisine != "" && !strings.EqualFold(r.Cuisine, c.Cuisine) {
			return false
		}
		if c.MinRating != nil && r.Rating < *c.MinRating {
			return false
		}
		return true
	})
}

// SearchRestaurants matches term as a case-insensitive substring of the
// name, cuisine or location.
func SearchRestaurants(src Source, term string) []model.Restaurant {
	needle := strings.ToLower(term)
	return Where(src, func(r model.Restaurant) bool {
		return strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Cuisine), needle) ||
			strings.Contains(strings.ToLower(r.Location), needle)
	})
}

// Where returns the restaurants for which keep is true.
func Where(src Source, keep func(model.Restaurant) bool) []model.Restaurant {
	out := []model.Restaurant{}
	for _, r := range src.Restaurants() {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// CuisineTypes returns the distinct cuisines, sorted.
func CuisineTypes(src Source) []string {
	seen := map[string]struct{}{}
	for _, r := range src.Restaurants() {
		seen[r.Cuisine] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// TimeSlots lists HH:MM times from opening to closing inclusive, step
// apart. A step below one minute uses DefaultSlotStep. Slots stop at the
// end of the day; malformed hours yield no slots.
func TimeSlots(r model.Restaurant, step time.Duration) []string {
	open, close, err := r.Hours()
	if err != nil {
		return []string{}
	}
	inc := model.Clock(step / time.Minute)
	if inc < 1 {
		inc = model.Clock(DefaultSlotStep / time.Minute)
	}
	out := []string{}
	for c := open; c <= close && c < model.MinutesPerDay; c += inc {
		out = append(out, c.String())
	}
	return out
}
