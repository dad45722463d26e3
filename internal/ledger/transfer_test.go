package ledger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/tablo/internal/model"
)

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src, _ := openFileLedger(t)
	require.NoError(t, src.Append(ctx, booking("B00000001", "U001", "T2_1")))
	require.NoError(t, src.Append(ctx, booking("legacy-7", "U002", "T2_2")))
	_, err := src.Cancel(ctx, "B00000001", "U001")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := Export(ctx, src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	db := openStore(t, t.TempDir())
	defer db.Close()
	dst, err := OpenPebble(db)
	require.NoError(t, err)
	require.NoError(t, dst.Append(ctx, booking("legacy-7", "U009", "T6_1")))

	res, err := Import(ctx, bytes.NewReader(buf.Bytes()), "export.csv", dst)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 1, Skipped: 1}, res)

	b, err := dst.Get(ctx, "B00000001")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, b.Status)

	active, err := dst.ActiveTables(ctx, "R001", "2030-06-01", "19:00")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"T6_1": {}}, active)
}

func TestImportCountsNonstandardIDs(t *testing.T) {
	ctx := context.Background()
	dst, _ := openFileLedger(t)
	body := strings.Join(Columns, ",") + "\n" +
		"B00000001,U001,R001,2030-06-01,19:00,T2_1,2,active\n" +
		"X1,U001,R001,2030-06-01,19:00,T2_2,2,active\n"
	res, err := Import(ctx, strings.NewReader(body), "in.csv", dst)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Nonstandard: 1}, res)
}

func TestImportMalformedWritesNothing(t *testing.T) {
	ctx := context.Background()
	dst, _ := openFileLedger(t)
	body := strings.Join(Columns, ",") + "\n" +
		"B00000001,U001,R001,2030-06-01,19:00,T2_1,2,active\n" +
		"B00000002,U001,R001,2030-06-01,19:00,T2_2,x,active\n"
	_, err := Import(ctx, strings.NewReader(body), "in.csv", dst)
	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)

	all, err := dst.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
