package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rzbill/tablo/internal/model"
)

// Columns is the bookings file header.
var Columns = []string{
	"booking_id", "user_id", "restaurant_id", "date", "time",
	"table_id", "party_size", "status",
}

func encodeRow(b model.Booking) []string {
	return []string{
		b.ID, b.UserID, b.RestaurantID, b.Date, b.Time,
		b.TableID, strconv.Itoa(b.PartySize), string(b.Status),
	}
}

// encodeRowAs lays out b in the column order of header. Columns the
// ledger does not know are left empty.
func encodeRowAs(header []string, b model.Booking) []string {
	values := encodeRow(b)
	pos := make(map[string]int, len(Columns))
	for i, c := range Columns {
		pos[c] = i
	}
	out := make([]string, len(header))
	for i, h := range header {
		if j, ok := pos[h]; ok {
			out[i] = values[j]
		}
	}
	return out
}

// readHeader returns the trimmed column names of the first record.
func readHeader(r io.Reader, file string) ([]string, error) {
	header, err := csv.NewReader(r).Read()
	if err != nil {
		return nil, wrapCSV(file, err)
	}
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out, nil
}

// rowReader decodes booking rows addressed by header name.
type rowReader struct {
	file string
	cr   *csv.Reader
	cols map[string]int
}

// newRowReader consumes the header. ok is false for an empty input.
func newRowReader(r io.Reader, file string) (rr *rowReader, ok bool, err error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapCSV(file, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range Columns {
		if _, found := cols[c]; !found {
			return nil, false, &model.ParseError{File: file, Line: 1, Err: fmt.Errorf("missing column %q", c)}
		}
	}
	return &rowReader{file: file, cr: cr, cols: cols}, true, nil
}

// next returns io.EOF after the last row.
func (r *rowReader) next() (model.Booking, error) {
	rec, err := r.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Booking{}, io.EOF
		}
		return model.Booking{}, wrapCSV(r.file, err)
	}
	line, _ := r.cr.FieldPos(0)
	get := func(c string) string { return rec[r.cols[c]] }

	party, err := strconv.Atoi(strings.TrimSpace(get("party_size")))
	if err != nil {
		return model.Booking{}, &model.ParseError{File: r.file, Line: line, Field: "party_size", Value: get("party_size"), Err: err}
	}
	status, err := model.ParseStatus(strings.TrimSpace(get("status")))
	if err != nil {
		return model.Booking{}, &model.ParseError{File: r.file, Line: line, Field: "status", Value: get("status"), Err: err}
	}
	return model.Booking{
		ID:           get("booking_id"),
		UserID:       get("user_id"),
		RestaurantID: get("restaurant_id"),
		Date:         get("date"),
		Time:         get("time"),
		TableID:      get("table_id"),
		PartySize:    party,
		Status:       status,
	}, nil
}

// readRows decodes every row of r.
func readRows(r io.Reader, file string) ([]model.Booking, error) {
	rr, ok, err := newRowReader(r, file)
	if err != nil || !ok {
		return nil, err
	}
	var out []model.Booking
	for {
		b, err := rr.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
}

// appendRows writes bookings without a header, in the order of an existing
// header.
func appendRows(w io.Writer, header []string, bookings ...model.Booking) error {
	cw := csv.NewWriter(w)
	for _, b := range bookings {
		if err := cw.Write(encodeRowAs(header, b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeRows writes bookings, preceded by the header when header is true.
func writeRows(w io.Writer, header bool, bookings ...model.Booking) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(Columns); err != nil {
			return err
		}
	}
	for _, b := range bookings {
		if err := cw.Write(encodeRow(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func wrapCSV(file string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &model.ParseError{File: file, Line: pe.Line, Err: pe.Err}
	}
	return &model.ParseError{File: file, Err: err}
}
