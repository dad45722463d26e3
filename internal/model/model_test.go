package model

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableConfigRoundTrip(t *testing.T) {
	cfg, err := ParseTableConfig("2:5,4:3")
	require.NoError(t, err)
	assert.Equal(t, TableConfig{2: 5, 4: 3}, cfg)

	tokens := strings.Split(cfg.String(), ",")
	sort.Strings(tokens)
	assert.Equal(t, []string{"2:5", "4:3"}, tokens)

	// order in the source does not matter, output is by size
	cfg, err = ParseTableConfig("6:1, 2:5 ,4:3")
	require.NoError(t, err)
	assert.Equal(t, "2:5,4:3,6:1", cfg.String())
	assert.Equal(t, 9, cfg.Total())
	assert.Equal(t, 6, cfg.MaxSize())
}

func TestParseTableConfigMalformed(t *testing.T) {
	for _, in := range []string{"", "2-5", "2:5,4", "x:1", "2:y", "0:3", "2:-1", "2:1,2:3"} {
		_, err := ParseTableConfig(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestSlotsOrdered(t *testing.T) {
	cfg := TableConfig{4: 1, 2: 2}
	slots := cfg.Slots()
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.TableID
	}
	assert.Equal(t, []string{"T2_1", "T2_2", "T4_1"}, ids)
	assert.True(t, cfg.Has("T2_2"))
	assert.False(t, cfg.Has("T2_3"))
	assert.False(t, cfg.Has("T6_1"))
	assert.False(t, cfg.Has("table"))
}

func TestTableSlotJSON(t *testing.T) {
	slot := TableConfig{2: 1}.Slots()[0]
	assert.Equal(t, 1, slot.Index)
	b, err := json.Marshal(slot)
	require.NoError(t, err)
	assert.JSONEq(t, `{"table_id":"T2_1","size":2}`, string(b))
}

func TestParseTableID(t *testing.T) {
	size, idx, err := ParseTableID("T10_3")
	require.NoError(t, err)
	assert.Equal(t, 10, size)
	assert.Equal(t, 3, idx)
	for _, in := range []string{"10_3", "T10", "T10_0", "Tx_1"} {
		_, _, err := ParseTableID(in)
		assert.Error(t, err, in)
	}
}

func TestClock(t *testing.T) {
	c, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(9*60+5), c)
	assert.Equal(t, "09:05", c.String())

	for _, in := range []string{"", "24:00", "12:60", "noon", "12:5"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestSlotTime(t *testing.T) {
	got, err := SlotTime("2025-06-01", "19:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC), got)

	_, err = SlotTime("2025-13-01", "19:30", time.UTC)
	assert.Error(t, err)
}

func TestSlotTimeKeepsWallClockAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got, err := SlotTime("2030-03-10", "12:00", ny)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, 0, got.Minute())

	got, err = SlotTime("2030-11-03", "19:30", ny)
	require.NoError(t, err)
	assert.Equal(t, 19, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestCanonicalClock(t *testing.T) {
	assert.Equal(t, "09:30", CanonicalClock("9:30"))
	assert.Equal(t, "09:30", CanonicalClock("09:30"))
	assert.Equal(t, "late", CanonicalClock("late"))

	b := Booking{RestaurantID: "R1", Date: "2025-06-01", Time: "9:30"}
	assert.True(t, b.SameSlot("R1", "2025-06-01", "09:30"))
	assert.False(t, b.SameSlot("R1", "2025-06-01", "09:31"))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)
	_, err = ParseStatus("pending")
	assert.Error(t, err)
}

func TestParseErrorMessage(t *testing.T) {
	cause := errors.New("not a number")
	err := &ParseError{File: "restaurants.csv", Line: 3, Field: "rating", Value: "high", Err: cause}
	assert.Equal(t, `restaurants.csv:3: field rating="high": not a number`, err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestInfo(t *testing.T) {
	r := Restaurant{ID: "R1", Name: "Luigi", Opening: "11:00", Closing: "22:00", Tables: TableConfig{2: 1}}
	info := r.Info()
	assert.Equal(t, "11:00 - 22:00", info.Hours)
	assert.Equal(t, "R1", info.ID)
}
