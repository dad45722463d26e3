package client

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/pkg/log"
)

const (
	restaurantsCSV = "restaurant_id,name,cuisine_type,rating,location,total_tables,table_configuration,opening_hours,closing_hours\n" +
		"R001,Bella Italia,Italian,4.5,Downtown,2,\"2:1,4:1\",11:00,22:00\n" +
		"R002,Sakura,Japanese,4.8,Uptown,2,2:2,17:00,23:00\n"
	usersCSV = "user_id,name,email,phone_number\n" +
		"U001,Ada,ada@example.com,555-0101\n" +
		"U002,Lin,lin@example.com,555-0102\n"
)

var fixedNow = func() time.Time { return time.Date(2025, 5, 31, 12, 0, 0, 0, time.Local) }

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{"restaurants.csv": restaurantsCSV, "users.csv": usersCSV} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// run executes the root command and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(Options{
		Logger: log.NewLogger(log.WithOutput(log.NullOutput{})),
		Now:    fixedNow,
	})
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err, "%v", args)
	return out
}

func decode(t *testing.T, s string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(s), v), s)
}

func restaurantIDs(rs []model.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestRestaurantsList(t *testing.T) {
	dir := newDataDir(t)

	var all []model.Restaurant
	decode(t, mustRun(t, dir, "restaurants", "list"), &all)
	assert.Equal(t, []string{"R001", "R002"}, restaurantIDs(all))
	assert.Equal(t, 1, all[0].Tables[4])

	var filtered []model.Restaurant
	decode(t, mustRun(t, dir, "restaurants", "list", "--min-rating", "4.6"), &filtered)
	assert.Equal(t, []string{"R002"}, restaurantIDs(filtered), "min-rating")

	decode(t, mustRun(t, dir, "restaurants", "list", "--cuisine", "ITALIAN", "--search", "down"), &filtered)
	assert.Equal(t, []string{"R001"}, restaurantIDs(filtered), "cuisine+search")

	decode(t, mustRun(t, dir, "restaurants", "list", "--where", `closing == "23:00"`), &filtered)
	assert.Equal(t, []string{"R002"}, restaurantIDs(filtered), "where")

	_, err := run(t, dir, "restaurants", "list", "--where", "rating +")
	assert.Error(t, err, "CEL compile error")
}

func TestRestaurantsShowAndCuisines(t *testing.T) {
	dir := newDataDir(t)

	var info model.RestaurantInfo
	decode(t, mustRun(t, dir, "restaurants", "show", "R001"), &info)
	assert.Equal(t, "11:00 - 22:00", info.Hours)
	assert.Equal(t, "Bella Italia", info.Name)

	_, err := run(t, dir, "restaurants", "show", "R404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown restaurant")

	var cuisines []string
	decode(t, mustRun(t, dir, "cuisines"), &cuisines)
	assert.Equal(t, []string{"Italian", "Japanese"}, cuisines)

	var users []model.User
	decode(t, mustRun(t, dir, "users", "list"), &users)
	assert.Len(t, users, 2)
}

func TestBookingFlow(t *testing.T) {
	dir := newDataDir(t)

	var slots []string
	decode(t, mustRun(t, dir, "slots", "--restaurant", "R001", "--date", "2025-06-01"), &slots)
	require.Len(t, slots, 23)
	assert.Equal(t, "11:00", slots[0])
	assert.Equal(t, "22:00", slots[22])

	tablesArgs := []string{"tables", "--restaurant", "R001", "--date", "2025-06-01", "--time", "19:00", "--party", "3"}
	var tables []map[string]any
	decode(t, mustRun(t, dir, tablesArgs...), &tables)
	assert.Equal(t, []map[string]any{{"table_id": "T4_1", "size": float64(4)}}, tables)

	var b model.Booking
	decode(t, mustRun(t, dir, "book", "--user", "U001", "--restaurant", "R001", "--date", "2025-06-01", "--time", "19:00", "--party", "3"), &b)
	assert.Equal(t, "T4_1", b.TableID)
	assert.Equal(t, model.StatusActive, b.Status)

	_, err := run(t, dir, "book", "--user", "U002", "--restaurant", "R001", "--date", "2025-06-01", "--time", "19:00", "--party", "3")
	assert.Error(t, err, "double booking")
	_, err = run(t, dir, "book", "--user", "U002", "--restaurant", "R001", "--date", "2025-06-01", "--time", "23:00")
	assert.Error(t, err, "outside hours")

	var cancelled map[string]any
	decode(t, mustRun(t, dir, "cancel", "--user", "U002", "--booking", b.ID), &cancelled)
	assert.Equal(t, false, cancelled["cancelled"], "foreign cancel")
	decode(t, mustRun(t, dir, "cancel", "--user", "U001", "--booking", b.ID), &cancelled)
	assert.Equal(t, true, cancelled["cancelled"])

	var shown model.Booking
	decode(t, mustRun(t, dir, "booking", "show", b.ID), &shown)
	assert.Equal(t, model.StatusCancelled, shown.Status)

	raw, err := os.ReadFile(filepath.Join(dir, "bookings.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "booking_id,user_id,restaurant_id,date,time,table_id,party_size,status\n")
}

func TestReserveAndHistory(t *testing.T) {
	dir := newDataDir(t)

	var res map[string]string
	decode(t, mustRun(t, dir, "reserve", "--user", "U002", "--restaurant", "R002", "--date", "2025-06-02", "--time", "18:00", "--table", "T2_2"), &res)
	require.NotEmpty(t, res["booking_id"])

	var hist []model.Booking
	decode(t, mustRun(t, dir, "history", "--user", "U002"), &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, res["booking_id"], hist[0].ID)
	assert.Equal(t, "T2_2", hist[0].TableID)

	decode(t, mustRun(t, dir, "history", "--user", "U001"), &hist)
	assert.Empty(t, hist)
}

func TestRequiredFlags(t *testing.T) {
	dir := newDataDir(t)
	_, err := run(t, dir, "tables", "--restaurant", "R001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--date is required")
	assert.Contains(t, err.Error(), "--time is required")
}

func TestLedgerExportImportAndHealth(t *testing.T) {
	dir := newDataDir(t)
	mustRun(t, dir, "reserve", "--user", "U001", "--restaurant", "R001", "--date", "2025-06-01", "--time", "19:00", "--table", "T2_1")

	export := filepath.Join(t.TempDir(), "export.csv")
	var summary map[string]any
	decode(t, mustRun(t, dir, "ledger", "export", "--out", export), &summary)
	assert.Equal(t, float64(1), summary["exported"])

	t.Setenv("TABLO_LEDGER_STORE_DIR", "store")
	var imported map[string]int
	decode(t, mustRun(t, dir, "--backend", "pebble", "ledger", "import", "--file", export), &imported)
	assert.Equal(t, 1, imported["imported"])

	var hist []model.Booking
	decode(t, mustRun(t, dir, "--backend", "pebble", "history", "--user", "U001"), &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, "T2_1", hist[0].TableID)

	var health map[string]any
	decode(t, mustRun(t, dir, "--backend", "pebble", "health"), &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "pebble", health["backend"])
}

func TestConfiguredLogFileIsWrittenAndReleased(t *testing.T) {
	dir := newDataDir(t)
	logPath := filepath.Join(t.TempDir(), "tablo.log")
	t.Setenv("TABLO_LOG_OUTPUT", logPath)

	root := NewRoot(Options{Now: fixedNow})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--data-dir", dir, "book", "--user", "U001", "--restaurant", "R001", "--date", "2025-06-01", "--time", "19:00"})
	require.NoError(t, root.Execute())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "booking confirmed")
	assert.NoError(t, os.Remove(logPath))
}
