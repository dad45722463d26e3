// Package pebblestore is a thin wrapper around Pebble with an fsync policy,
// atomic batches, snapshots, prefix scans and a minimal metrics hook. The
// reservation ledger uses it as its embedded indexed store.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./store",
//	    Fsync:   pebblestore.FsyncModeAlways,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("ledger/id/B0123abcd"), seq, nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
//
//	_ = db.ScanPrefix([]byte("ledger/u/"), func(k, v []byte) bool { return true })
package pebblestore
