package ledger

import (
	"context"
	"errors"
	"io"

	"github.com/rzbill/tablo/pkg/id"
)

// Export writes every booking of src to w in the bookings.csv layout.
func Export(ctx context.Context, src Ledger, w io.Writer) (int, error) {
	all, err := src.All(ctx)
	if err != nil {
		return 0, err
	}
	if err := writeRows(w, true, all...); err != nil {
		return 0, err
	}
	return len(all), nil
}

// ImportResult summarizes an Import.
type ImportResult struct {
	Imported int `json:"imported"`
	// Skipped counts rows whose booking id was already present in dst.
	Skipped int `json:"skipped"`
	// Nonstandard counts imported ids that do not have the B+8 hex shape.
	Nonstandard int `json:"nonstandard"`
}

// Import appends every row of a bookings.csv stream to dst in file order.
// Rows whose id already exists are skipped; the first occurrence wins, as
// it does for lookups. A malformed row aborts before anything is written.
func Import(ctx context.Context, r io.Reader, name string, dst Ledger) (ImportResult, error) {
	var res ImportResult
	rows, err := readRows(r, name)
	if err != nil {
		return res, err
	}
	for _, b := range rows {
		if err := dst.Append(ctx, b); err != nil {
			if errors.Is(err, ErrDuplicateID) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Imported++
		if !id.Valid(b.ID) {
			res.Nonstandard++
		}
	}
	return res, nil
}
