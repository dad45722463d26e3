package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TableConfig maps a seat count to the number of tables of that size.
type TableConfig map[int]int

// TableSlot is one physical table instance within a size class.
type TableSlot struct {
	TableID string `json:"table_id"`
	Size    int    `json:"size"`
	Index   int    `json:"-"`
}

// TableID renders the restaurant scoped id of the index-th (1-based) table of size seats.
func TableID(size, index int) string {
	return "T" + strconv.Itoa(size) + "_" + strconv.Itoa(index)
}

// ParseTableID is the inverse of TableID.
func ParseTableID(s string) (size, index int, err error) {
	rest, ok := strings.CutPrefix(s, "T")
	if !ok {
		return 0, 0, fmt.Errorf("invalid table id %q", s)
	}
	a, b, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("invalid table id %q", s)
	}
	if size, err = strconv.Atoi(a); err != nil || size < 1 {
		return 0, 0, fmt.Errorf("invalid table id %q", s)
	}
	if index, err = strconv.Atoi(b); err != nil || index < 1 {
		return 0, 0, fmt.Errorf("invalid table id %q", s)
	}
	return size, index, nil
}

// ParseTableConfig parses a comma separated list of size:count tokens such
// as "2:5,4:3,6:1". Every token needs a ':' separator, a positive size and a
// non-negative count; a size may appear once.
func ParseTableConfig(s string) (TableConfig, error) {
	cfg := TableConfig{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		seats, count, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("table config token %q: missing ':'", tok)
		}
		size, err := strconv.Atoi(strings.TrimSpace(seats))
		if err != nil || size < 1 {
			return nil, fmt.Errorf("table config token %q: bad seat count", tok)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("table config token %q: bad table count", tok)
		}
		if _, dup := cfg[size]; dup {
			return nil, errors.New("table config: duplicate size " + strconv.Itoa(size))
		}
		cfg[size] = n
	}
	return cfg, nil
}

// Sizes returns the configured seat counts in ascending order.
func (c TableConfig) Sizes() []int {
	sizes := make([]int, 0, len(c))
	for size := range c {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}

// Total is the number of configured tables across all sizes.
func (c TableConfig) Total() int {
	n := 0
	for _, count := range c {
		n += count
	}
	return n
}

// MaxSize is the largest configured seat count with at least one table.
func (c TableConfig) MaxSize() int {
	m := 0
	for size, count := range c {
		if count > 0 && size > m {
			m = size
		}
	}
	return m
}

// Slots enumerates every table ordered by size, then index.
func (c TableConfig) Slots() []TableSlot {
	out := make([]TableSlot, 0, c.Total())
	for _, size := range c.Sizes() {
		for i := 1; i <= c[size]; i++ {
			out = append(out, TableSlot{TableID: TableID(size, i), Size: size, Index: i})
		}
	}
	return out
}

// Has reports whether tableID names a configured table.
func (c TableConfig) Has(tableID string) bool {
	size, index, err := ParseTableID(tableID)
	if err != nil {
		return false
	}
	return index <= c[size]
}

// String serializes back to the persisted form in ascending size order.
func (c TableConfig) String() string {
	parts := make([]string, 0, len(c))
	for _, size := range c.Sizes() {
		parts = append(parts, strconv.Itoa(size)+":"+strconv.Itoa(c[size]))
	}
	return strings.Join(parts, ",")
}
