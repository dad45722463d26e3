package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/pkg/log"
)

// Options tunes loading.
type Options struct {
	// StrictTableCount rejects restaurants whose total_tables differs from
	// the sum of their table_configuration counts. When false the mismatch
	// is logged and the configuration wins.
	StrictTableCount bool
	Logger           log.Logger
}

func (o Options) logger() log.Logger {
	if o.Logger == nil {
		return log.NewLogger(log.WithOutput(log.NullOutput{}))
	}
	return o.Logger
}

// Catalog holds the reference data for a session. It is read-only after
// Load returns and safe for concurrent readers.
type Catalog struct {
	restaurants map[string]model.Restaurant
	users       map[string]model.User
}

// New wraps already-loaded maps.
func New(restaurants map[string]model.Restaurant, users map[string]model.User) *Catalog {
	if restaurants == nil {
		restaurants = map[string]model.Restaurant{}
	}
	if users == nil {
		users = map[string]model.User{}
	}
	return &Catalog{restaurants: restaurants, users: users}
}

// Load reads both reference files.
func Load(restaurantsPath, usersPath string, opts Options) (*Catalog, error) {
	rs, err := LoadRestaurants(restaurantsPath, opts)
	if err != nil {
		return nil, err
	}
	us, err := LoadUsers(usersPath, opts)
	if err != nil {
		return nil, err
	}
	opts.logger().Info("catalog loaded",
		log.Int("restaurants", len(rs)), log.Int("users", len(us)))
	return New(rs, us), nil
}

// Restaurant looks up a restaurant by id.
func (c *Catalog) Restaurant(id string) (model.Restaurant, bool) {
	r, ok := c.restaurants[id]
	return r, ok
}

// User looks up a user by id.
func (c *Catalog) User(id string) (model.User, bool) {
	u, ok := c.users[id]
	return u, ok
}

// Restaurants returns every restaurant ordered by id.
func (c *Catalog) Restaurants() []model.Restaurant {
	out := make([]model.Restaurant, 0, len(c.restaurants))
	for _, r := range c.restaurants {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Users returns every user ordered by id.
func (c *Catalog) Users() []model.User {
	out := make([]model.User, 0, len(c.users))
	for _, u := range c.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RestaurantMap exposes the underlying map. Callers must not mutate it.
func (c *Catalog) RestaurantMap() map[string]model.Restaurant { return c.restaurants }

// LoadRestaurants reads a restaurants CSV file keyed by restaurant_id.
func LoadRestaurants(path string, opts Options) (map[string]model.Restaurant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open restaurants: %w", err)
	}
	defer f.Close()
	return ReadRestaurants(f, path, opts)
}

// ReadRestaurants parses restaurant rows from r. name labels errors.
func ReadRestaurants(r io.Reader, name string, opts Options) (map[string]model.Restaurant, error) {
	s, err := openSheet(r, name, RestaurantColumns)
	if err != nil {
		return nil, err
	}
	logger := opts.logger()
	out := map[string]model.Restaurant{}
	for {
		row, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rest, err := parseRestaurant(row)
		if err != nil {
			return nil, err
		}
		if sum := rest.Tables.Total(); sum != rest.TotalTables {
			if opts.StrictTableCount {
				return nil, row.fail("total_tables",
					fmt.Errorf("does not match table_configuration total %d", sum))
			}
			logger.Warn("total_tables disagrees with table_configuration",
				log.Str("restaurant_id", rest.ID),
				log.Int("total_tables", rest.TotalTables),
				log.Int("configured", sum))
		}
		if _, dup := out[rest.ID]; dup {
			logger.Warn("duplicate restaurant_id, later row wins",
				log.Str("restaurant_id", rest.ID), log.Int("line", row.line))
		}
		out[rest.ID] = rest
	}
	return out, nil
}

func parseRestaurant(row row) (model.Restaurant, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(row.get("rating")), 64)
	if err != nil {
		return model.Restaurant{}, row.fail("rating", err)
	}
	total, err := strconv.Atoi(strings.TrimSpace(row.get("total_tables")))
	if err != nil {
		return model.Restaurant{}, row.fail("total_tables", err)
	}
	tables, err := model.ParseTableConfig(row.get("table_configuration"))
	if err != nil {
		return model.Restaurant{}, row.fail("table_configuration", err)
	}
	rest := model.Restaurant{
		ID:          row.get("restaurant_id"),
		Name:        row.get("name"),
		Cuisine:     row.get("cuisine_type"),
		Rating:      rating,
		Location:    row.get("location"),
		TotalTables: total,
		Tables:      tables,
		Opening:     strings.TrimSpace(row.get("opening_hours")),
		Closing:     strings.TrimSpace(row.get("closing_hours")),
	}
	if err := checkRecord(rest, row.sheet.file, row.line, "restaurant_id"); err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

// LoadUsers reads a users CSV file keyed by user_id.
func LoadUsers(path string, opts Options) (map[string]model.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}
	defer f.Close()
	return ReadUsers(f, path, opts)
}

// ReadUsers parses user rows from r.
func ReadUsers(r io.Reader, name string, opts Options) (map[string]model.User, error) {
	s, err := openSheet(r, name, UserColumns)
	if err != nil {
		return nil, err
	}
	out := map[string]model.User{}
	for {
		row, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		u := model.User{
			ID:    row.get("user_id"),
			Name:  row.get("name"),
			Email: row.get("email"),
			Phone: row.get("phone_number"),
		}
		if err := checkRecord(u, name, row.line, "user_id"); err != nil {
			return nil, err
		}
		if _, dup := out[u.ID]; dup {
			opts.logger().Warn("duplicate user_id, later row wins",
				log.Str("user_id", u.ID), log.Int("line", row.line))
		}
		out[u.ID] = u
	}
	return out, nil
}

// WriteRestaurants writes rs in the layout ReadRestaurants accepts.
func WriteRestaurants(w io.Writer, rs []model.Restaurant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RestaurantColumns); err != nil {
		return err
	}
	for _, r := range rs {
		rec := []string{
			r.ID, r.Name, r.Cuisine,
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			r.Location,
			strconv.Itoa(r.TotalTables),
			r.Tables.String(),
			r.Opening, r.Closing,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUsers writes us in the layout ReadUsers accepts.
func WriteUsers(w io.Writer, us []model.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(UserColumns); err != nil {
		return err
	}
	for _, u := range us {
		if err := cw.Write([]string{u.ID, u.Name, u.Email, u.Phone}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
