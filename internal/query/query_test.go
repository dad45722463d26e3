package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/tablo/internal/catalog"
	"github.com/rzbill/tablo/internal/model"
)

func fixture() *catalog.Catalog {
	return catalog.New(map[string]model.Restaurant{
		"R003": {ID: "R003", Name: "Taco Loco", Cuisine: "Mexican", Rating: 3.9, Location: "Harbor", Tables: model.TableConfig{2: 4}, TotalTables: 4, Opening: "12:00", Closing: "21:00"},
		"R001": {ID: "R001", Name: "Bella Italia", Cuisine: "Italian", Rating: 4.5, Location: "Downtown", Tables: model.TableConfig{2: 5, 4: 3, 6: 1}, TotalTables: 9, Opening: "11:00", Closing: "22:00"},
		"R002": {ID: "R002", Name: "Sakura", Cuisine: "Japanese", Rating: 4.8, Location: "Uptown Italian quarter", Tables: model.TableConfig{2: 2, 4: 2}, TotalTables: 4, Opening: "17:00", Closing: "23:00"},
		"R004": {ID: "R004", Name: "Trattoria", Cuisine: "italian", Rating: 4.0, Location: "Old Town", Tables: model.TableConfig{4: 2}, TotalTables: 2, Opening: "18:00", Closing: "22:30"},
	}, nil)
}

func restaurantIDs(rs []model.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func rating(v float64) *float64 { return &v }

func TestFilterRestaurants(t *testing.T) {
	c := fixture()
	assert.Equal(t, []string{"R001", "R002", "R003", "R004"}, restaurantIDs(FilterRestaurants(c, Criteria{})))
	assert.Equal(t, []string{"R001", "R004"}, restaurantIDs(FilterRestaurants(c, Criteria{Cuisine: "ITALIAN"})))
	assert.Equal(t, []string{"R001", "R002", "R004"}, restaurantIDs(FilterRestaurants(c, Criteria{MinRating: rating(4.0)})))
	assert.Equal(t, []string{"R001"}, restaurantIDs(FilterRestaurants(c, Criteria{Cuisine: "italian", MinRating: rating(4.1)})))
	assert.Empty(t, FilterRestaurants(c, Criteria{Cuisine: "Ital"}))
}

func TestSearchRestaurants(t *testing.T) {
	c := fixture()
	assert.Equal(t, []string{"R001", "R002", "R004"}, restaurantIDs(SearchRestaurants(c, "italian")))
	assert.Equal(t, []string{"R003"}, restaurantIDs(SearchRestaurants(c, "HARB")))
	assert.Equal(t, []string{"R001", "R002", "R003", "R004"}, restaurantIDs(SearchRestaurants(c, "")))
	assert.Empty(t, SearchRestaurants(c, "sushi bar"))
}

func TestCuisineTypes(t *testing.T) {
	assert.Equal(t, []string{"Italian", "Japanese", "Mexican", "italian"}, CuisineTypes(fixture()))
	assert.Empty(t, CuisineTypes(catalog.New(nil, nil)))
}

func TestTimeSlots(t *testing.T) {
	r := model.Restaurant{Opening: "11:00", Closing: "12:30"}
	assert.Equal(t, []string{"11:00", "11:30", "12:00", "12:30"}, TimeSlots(r, 0))
	assert.Equal(t, []string{"11:00", "12:00"}, TimeSlots(r, time.Hour))

	r = model.Restaurant{Opening: "22:15", Closing: "23:59"}
	assert.Equal(t, []string{"22:15", "22:45", "23:15", "23:45"}, TimeSlots(r, 0))

	r = model.Restaurant{Opening: "09:00", Closing: "09:00"}
	assert.Equal(t, []string{"09:00"}, TimeSlots(r, 0))

	assert.Empty(t, TimeSlots(model.Restaurant{Opening: "late", Closing: "23:00"}, 0))
}

func TestCompileExpr(t *testing.T) {
	c := fixture()
	cases := map[string][]string{
		``:                                      {"R001", "R002", "R003", "R004"},
		`cuisine == "Italian" && rating >= 4.0`: {"R001"},
		`6 in tables`:                           {"R001"},
		`max_party >= 4 && total_tables < 5`:    {"R002", "R004"},
		`closing > "22:00"`:                     {"R002", "R004"},
		`location.contains("Town")`:             {"R004"},
		`tables[2] >= 4`:                        {"R001", "R003"},
		`name.startsWith("T") || id == "R002"`:  {"R002", "R003", "R004"},
	}
	for expr, want := range cases {
		t.Run(expr, func(t *testing.T) {
			pred, err := CompileExpr(expr)
			require.NoError(t, err)
			assert.Equal(t, want, restaurantIDs(Where(c, pred)))
		})
	}
}

func TestCompileExprErrors(t *testing.T) {
	_, err := CompileExpr(`rating +`)
	assert.Error(t, err)
	_, err = CompileExpr(`unknown_var == 1`)
	assert.Error(t, err)
	_, err = CompileExpr(`rating * 2.0`)
	assert.ErrorContains(t, err, "boolean")
}
