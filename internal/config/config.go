package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ledger backends.
const (
	BackendCSV    = "csv"
	BackendPebble = "pebble"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	DataDir         string        `json:"dataDir" yaml:"dataDir"`
	RestaurantsFile string        `json:"restaurantsFile" yaml:"restaurantsFile"`
	UsersFile       string        `json:"usersFile" yaml:"usersFile"`
	BookingsFile    string        `json:"bookingsFile" yaml:"bookingsFile"`
	Ledger          LedgerConfig  `json:"ledger" yaml:"ledger"`
	Booking         BookingConfig `json:"booking" yaml:"booking"`
	Log             LogConfig     `json:"log" yaml:"log"`
}

// LedgerConfig selects and tunes the reservation ledger storage.
type LedgerConfig struct {
	// Backend is "csv" (bookings file rewritten in place) or "pebble".
	Backend string `json:"backend" yaml:"backend"`
	// StoreDir holds the Pebble database when Backend is "pebble". Empty
	// means a "store" directory under DefaultDataDir().
	StoreDir        string `json:"storeDir" yaml:"storeDir"`
	Fsync           string `json:"fsync" yaml:"fsync"`
	FsyncIntervalMs int    `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`
}

// BookingConfig holds reservation policy knobs.
type BookingConfig struct {
	SlotIntervalMinutes int `json:"slotIntervalMinutes" yaml:"slotIntervalMinutes"`
	// StrictTableCount rejects restaurants whose total_tables differs from
	// the sum of their table configuration.
	StrictTableCount bool `json:"strictTableCount" yaml:"strictTableCount"`
	// IDAttempts bounds booking id collision retries.
	IDAttempts int `json:"idAttempts" yaml:"idAttempts"`
}

// LogConfig mirrors pkg/log.Config.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

// Default returns built-in defaults. Relative file names resolve against
// DataDir, which defaults to the working directory.
func Default() Config {
	return Config{
		DataDir:         "",
		RestaurantsFile: "restaurants.csv",
		UsersFile:       "users.csv",
		BookingsFile:    "bookings.csv",
		Ledger: LedgerConfig{
			Backend:         BackendCSV,
			StoreDir:        "",
			Fsync:           "always",
			FsyncIntervalMs: 5,
		},
		Booking: BookingConfig{
			SlotIntervalMinutes: 30,
			IDAttempts:          8,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension) on top of
// Default(). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendCSV, BackendPebble:
	default:
		return fmt.Errorf("config: unknown ledger backend %q (use csv|pebble)", c.Ledger.Backend)
	}
	switch c.Ledger.Fsync {
	case "always", "interval", "never":
	default:
		return fmt.Errorf("config: unknown fsync mode %q (use always|interval|never)", c.Ledger.Fsync)
	}
	if c.Booking.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("config: slotIntervalMinutes must be positive")
	}
	return nil
}

// Path resolves a configured file name against DataDir.
func (c Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// StorePath returns the Pebble directory for the pebble backend.
func (c Config) StorePath() string {
	if c.Ledger.StoreDir == "" {
		return filepath.Join(DefaultDataDir(), "store")
	}
	return c.Path(c.Ledger.StoreDir)
}
