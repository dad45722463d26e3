package client

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/rzbill/tablo/internal/config"
	"github.com/rzbill/tablo/internal/runtime"
	"github.com/rzbill/tablo/pkg/log"
)

// Options customizes the commands. Zero values use the configured logger
// and the wall clock.
type Options struct {
	Logger log.Logger
	Now    func() time.Time
}

type app struct {
	opts Options
}

// NewRoot constructs the root `tablo` command with every subcommand.
func NewRoot(opts Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "tablo",
		Short:         "Restaurant table reservations",
		Long:          "Tablo browses restaurants, lists free tables and manages reservations stored in CSV files or an embedded store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", os.Getenv("TABLO_CONFIG"), "Config file (.json, .yaml)")
	pf.String("data-dir", "", "Directory holding restaurants.csv, users.csv and bookings.csv")
	pf.String("backend", "", "Ledger backend: csv|pebble")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-format", "", "Log format: text|json")

	a := &app{opts: opts}
	root.AddCommand(
		newRestaurantsCommand(a),
		newCuisinesCommand(a),
		newUsersCommand(a),
		newSlotsCommand(a),
		newTablesCommand(a),
		newBookCommand(a),
		newReserveCommand(a),
		newCancelCommand(a),
		newHistoryCommand(a),
		newBookingCommand(a),
		newLedgerCommand(a),
		newHealthCommand(a),
	)
	return root
}

// loadConfig layers defaults, file, environment and flags.
func (a *app) loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfgpkg.FromEnv(&cfg)

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Ledger.Backend = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, cfg.Validate()
}

// withRuntime opens a Runtime for the duration of fn.
func (a *app) withRuntime(cmd *cobra.Command, fn func(*runtime.Runtime) error) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := a.opts.Logger
	if logger == nil {
		logger, err = log.ApplyConfig(&log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
		if err != nil {
			return err
		}
		// Pebble logs through the standard library logger.
		log.RedirectStdLog(logger)
		if c, ok := logger.(io.Closer); ok {
			defer func() {
				log.ResetStdLog()
				_ = c.Close()
			}()
		}
	}

	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger, Now: a.opts.Now})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}
