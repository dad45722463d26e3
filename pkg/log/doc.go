// Package log provides tablo's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by the standard
// library slog via a bridge handler that feeds our formatter/outputs
// pipeline, so output stays consistent whether a record came from tablo code
// or from a library logging through slog or the stdlib log package.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("ledger"), log.Str("backend", "csv"))
//	l.Info("ledger opened", log.Int("bookings", 42))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level, text or
// JSON formatting, and the output sink).
//
// # Interop
//
// Pebble and other libraries log through the stdlib log package. Call
// RedirectStdLog once at startup to route those lines through a Logger.
package log
