package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rzbill/tablo/internal/model"
)

// Column headers, in file order.
var (
	RestaurantColumns = []string{
		"restaurant_id", "name", "cuisine_type", "rating", "location",
		"total_tables", "table_configuration", "opening_hours", "closing_hours",
	}
	UserColumns = []string{"user_id", "name", "email", "phone_number"}
)

// sheet reads header-addressed CSV rows.
type sheet struct {
	file string
	cr   *csv.Reader
	cols map[string]int
}

type row struct {
	sheet *sheet
	rec   []string
	line  int
}

// openSheet consumes the header row. An empty input yields a sheet with no
// rows.
func openSheet(r io.Reader, file string, required []string) (*sheet, error) {
	cr := csv.NewReader(r)
	s := &sheet{file: file, cr: cr, cols: map[string]int{}}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return s, nil
	}
	if err != nil {
		return nil, csvError(file, err)
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		s.cols[h] = i
	}
	for _, name := range required {
		if _, ok := s.cols[name]; !ok {
			return nil, &model.ParseError{File: file, Line: 1, Err: fmt.Errorf("missing column %q", name)}
		}
	}
	return s, nil
}

// next returns io.EOF after the last row.
func (s *sheet) next() (row, error) {
	if len(s.cols) == 0 {
		return row{}, io.EOF
	}
	rec, err := s.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return row{}, io.EOF
		}
		return row{}, csvError(s.file, err)
	}
	line, _ := s.cr.FieldPos(0)
	return row{sheet: s, rec: rec, line: line}, nil
}

func (r row) get(col string) string {
	return r.rec[r.sheet.cols[col]]
}

func (r row) fail(col string, err error) error {
	return &model.ParseError{File: r.sheet.file, Line: r.line, Field: col, Value: r.get(col), Err: err}
}

func csvError(file string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &model.ParseError{File: file, Line: pe.Line, Err: pe.Err}
	}
	return &model.ParseError{File: file, Err: err}
}
