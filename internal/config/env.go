package config

import (
	"os"
	"strconv"
)

// FromEnv overlays TABLO_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("TABLO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TABLO_RESTAURANTS_FILE"); v != "" {
		cfg.RestaurantsFile = v
	}
	if v := os.Getenv("TABLO_USERS_FILE"); v != "" {
		cfg.UsersFile = v
	}
	if v := os.Getenv("TABLO_BOOKINGS_FILE"); v != "" {
		cfg.BookingsFile = v
	}
	if v := os.Getenv("TABLO_LEDGER_BACKEND"); v != "" {
		cfg.Ledger.Backend = v
	}
	if v := os.Getenv("TABLO_LEDGER_STORE_DIR"); v != "" {
		cfg.Ledger.StoreDir = v
	}
	if v := os.Getenv("TABLO_LEDGER_FSYNC"); v != "" {
		cfg.Ledger.Fsync = v
	}
	if v := os.Getenv("TABLO_LEDGER_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ledger.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("TABLO_SLOT_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Booking.SlotIntervalMinutes = n
		}
	}
	if v := os.Getenv("TABLO_STRICT_TABLE_COUNT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Booking.StrictTableCount = b
		}
	}
	if v := os.Getenv("TABLO_ID_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Booking.IDAttempts = n
		}
	}
	if v := os.Getenv("TABLO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TABLO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TABLO_LOG_OUTPUT"); v != "" {
		cfg.Log.Output = v
	}
}
