package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/tablo/internal/model"
)

func booking(id, user, table string) model.Booking {
	return model.Booking{
		ID:           id,
		UserID:       user,
		RestaurantID: "R001",
		Date:         "2030-06-01",
		Time:         "19:00",
		TableID:      table,
		PartySize:    2,
		Status:       model.StatusActive,
	}
}

func ids(bs []model.Booking) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

// runSuite checks behavior every backend must share.
func runSuite(t *testing.T, open func(t *testing.T) Ledger) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		l := open(t)
		all, err := l.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		_, err = l.Get(ctx, "Bmissing0")
		assert.ErrorIs(t, err, ErrNotFound)

		active, err := l.ActiveTables(ctx, "R001", "2030-06-01", "19:00")
		require.NoError(t, err)
		assert.Empty(t, active)

		hist, err := l.ByUser(ctx, "U001")
		require.NoError(t, err)
		assert.Empty(t, hist)
	})

	t.Run("append and read back in order", func(t *testing.T) {
		l := open(t)
		require.NoError(t, l.Append(ctx, booking("B00000001", "U001", "T2_1")))
		require.NoError(t, l.Append(ctx, booking("B00000002", "U002", "T2_2")))
		require.NoError(t, l.Append(ctx, booking("B00000003", "U001", "T4_1")))

		all, err := l.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"B00000001", "B00000002", "B00000003"}, ids(all))

		hist, err := l.ByUser(ctx, "U001")
		require.NoError(t, err)
		assert.Equal(t, []string{"B00000001", "B00000003"}, ids(hist))

		got, err := l.Get(ctx, "B00000002")
		require.NoError(t, err)
		assert.Equal(t, booking("B00000002", "U002", "T2_2"), got)
	})

	t.Run("active tables match slot and status", func(t *testing.T) {
		l := open(t)
		require.NoError(t, l.Append(ctx, booking("B00000001", "U001", "T2_1")))
		other := booking("B00000002", "U001", "T2_2")
		other.Time = "19:30"
		require.NoError(t, l.Append(ctx, other))
		gone := booking("B00000003", "U001", "T4_1")
		gone.Status = model.StatusCancelled
		require.NoError(t, l.Append(ctx, gone))

		active, err := l.ActiveTables(ctx, "R001", "2030-06-01", "19:00")
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"T2_1": {}}, active)
	})

	t.Run("active tables ignore hour padding", func(t *testing.T) {
		l := open(t)
		early := booking("B00000001", "U001", "T2_1")
		early.Time = "9:30"
		require.NoError(t, l.Append(ctx, early))

		active, err := l.ActiveTables(ctx, "R001", "2030-06-01", "09:30")
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"T2_1": {}}, active)

		ok, err := l.Cancel(ctx, "B00000001", "U001")
		require.NoError(t, err)
		require.True(t, ok)
		active, err = l.ActiveTables(ctx, "R001", "2030-06-01", "9:30")
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("cancel", func(t *testing.T) {
		l := open(t)
		require.NoError(t, l.Append(ctx, booking("B00000001", "U001", "T2_1")))
		require.NoError(t, l.Append(ctx, booking("B00000002", "U001", "T2_2")))

		ok, err := l.Cancel(ctx, "B00000001", "U002")
		require.NoError(t, err)
		assert.False(t, ok, "foreign owner")

		ok, err = l.Cancel(ctx, "Bnope0000", "U001")
		require.NoError(t, err)
		assert.False(t, ok, "unknown id")

		ok, err = l.Cancel(ctx, "B00000001", "U001")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Cancel(ctx, "B00000001", "U001")
		require.NoError(t, err)
		assert.False(t, ok, "second cancel is a no-op")

		got, err := l.Get(ctx, "B00000001")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, got.Status)

		active, err := l.ActiveTables(ctx, "R001", "2030-06-01", "19:00")
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"T2_2": {}}, active)

		all, err := l.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"B00000001", "B00000002"}, ids(all), "order survives cancel")
		assert.Equal(t, model.StatusActive, all[1].Status)
	})

	t.Run("duplicate id", func(t *testing.T) {
		l := open(t)
		require.NoError(t, l.Append(ctx, booking("B00000001", "U001", "T2_1")))
		err := l.Append(ctx, booking("B00000001", "U002", "T2_2"))
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("exclusive serializes check and append", func(t *testing.T) {
		l := open(t)
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		errTaken := errors.New("taken")
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := l.Exclusive(ctx, func(tx Tx) error {
					active, err := tx.ActiveTables(ctx, "R001", "2030-06-01", "19:00")
					if err != nil {
						return err
					}
					if _, busy := active["T2_1"]; busy {
						return errTaken
					}
					return tx.Append(ctx, booking(fmt.Sprintf("B%08d", i), "U001", "T2_1"))
				})
				if err == nil {
					mu.Lock()
					winners++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, errTaken)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, winners)

		all, err := l.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("tx get", func(t *testing.T) {
		l := open(t)
		require.NoError(t, l.Append(ctx, booking("B00000001", "U001", "T2_1")))
		err := l.Exclusive(ctx, func(tx Tx) error {
			b, err := tx.Get(ctx, "B00000001")
			if err != nil {
				return err
			}
			assert.Equal(t, "T2_1", b.TableID)
			_, err = tx.Get(ctx, "B00000009")
			assert.ErrorIs(t, err, ErrNotFound)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		l := open(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, l.Append(cctx, booking("B00000001", "U001", "T2_1")), context.Canceled)
		_, err := l.All(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("closed", func(t *testing.T) {
		l := open(t)
		require.NoError(t, l.Close())
		_, err := l.All(ctx)
		assert.ErrorIs(t, err, ErrClosed)
	})
}
