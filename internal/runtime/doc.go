// Package runtime wires configuration, logging, the catalog, the ledger
// backend and the reservation services into one Runtime. The Runtime is the
// synchronous collaborator surface used by the command line: every method
// returns plain data.
//
// Example:
//
//	cfg := config.Default()
//	cfg.DataDir = "./data"
//	rt, err := runtime.Open(runtime.Options{Config: cfg})
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//	tables, _ := rt.AvailableTables(ctx, "R001", "2025-06-01", "19:00", 4)
package runtime
