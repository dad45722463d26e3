// Package ledger persists bookings as an append-mostly log.
//
// Two backends implement Ledger:
//
//   - FileLedger keeps the historical bookings.csv layout and rewrites the
//     file through a temp file plus rename on cancel.
//   - PebbleLedger stores crc-framed records in Pebble with secondary
//     indexes by booking id, by user and by active slot.
//
// Records are never deleted. The only in-place mutation is a status flip
// from active to cancelled. Every instance has a single writer lock;
// Exclusive exposes it so callers can check and append atomically.
package ledger
