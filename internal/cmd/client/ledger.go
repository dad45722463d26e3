package client

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzbill/tablo/internal/runtime"
)

// newLedgerCommand constructs the `ledger` command group.
func newLedgerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "ledger", Short: "Ledger maintenance"}
	cmd.AddCommand(newLedgerExportCommand(a), newLedgerImportCommand(a))
	return cmd
}

func newLedgerExportCommand(a *app) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write every booking as bookings.csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				if out == "" {
					_, err := rt.ExportLedger(cmd.Context(), cmd.OutOrStdout())
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				n, err := rt.ExportLedger(cmd.Context(), f)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"exported": n, "file": out})
			})
		},
	}
	exportCmd.Flags().String("out", "", "Output file (default stdout)")
	return exportCmd
}

func newLedgerImportCommand(a *app) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Append bookings from a bookings.csv file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "file"); err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("file")
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				res, err := rt.ImportLedger(cmd.Context(), f, path)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				return printJSON(cmd, res)
			})
		},
	}
	importCmd.Flags().String("file", "", "bookings.csv to import (required)")
	return importCmd
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the catalog loads and the ledger is readable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				if err := rt.CheckHealth(cmd.Context()); err != nil {
					return err
				}
				cfg := rt.Config()
				return printJSON(cmd, map[string]any{
					"status":      "ok",
					"backend":     cfg.Ledger.Backend,
					"restaurants": len(rt.Restaurants()),
					"users":       len(rt.Users()),
				})
			})
		},
	}
}
