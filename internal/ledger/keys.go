package ledger

import (
	"encoding/binary"

	"github.com/rzbill/tablo/internal/model"
)

// Keyspace (byte-wise sortable):
//
//	ledger/m                                  -> last seq (be8)
//	ledger/e/{seq_be8}                        -> framed booking
//	ledger/id/{booking_id}                    -> seq (be8)
//	ledger/u/{user_id}\x00{seq_be8}           -> empty
//	ledger/s/{rest}\x00{date}\x00{time}\x00{seq_be8} -> table id, active only

const sep = 0

var (
	keyMeta     = []byte("ledger/m")
	entryPrefix = []byte("ledger/e/")
	idPrefix    = []byte("ledger/id/")
	userPrefix  = []byte("ledger/u/")
	slotPrefix  = []byte("ledger/s/")
)

func appendBE8(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

func keyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	return appendBE8(k, seq)
}

func keyID(id string) []byte {
	k := make([]byte, 0, len(idPrefix)+len(id))
	k = append(k, idPrefix...)
	return append(k, id...)
}

func keyUserPrefix(userID string) []byte {
	k := make([]byte, 0, len(userPrefix)+len(userID)+9)
	k = append(k, userPrefix...)
	k = append(k, userID...)
	return append(k, sep)
}

func keyUser(userID string, seq uint64) []byte {
	return appendBE8(keyUserPrefix(userID), seq)
}

func keySlotPrefix(restaurantID, date, clock string) []byte {
	clock = model.CanonicalClock(clock)
	k := make([]byte, 0, len(slotPrefix)+len(restaurantID)+len(date)+len(clock)+11)
	k = append(k, slotPrefix...)
	k = append(k, restaurantID...)
	k = append(k, sep)
	k = append(k, date...)
	k = append(k, sep)
	k = append(k, clock...)
	return append(k, sep)
}

func keySlot(restaurantID, date, clock string, seq uint64) []byte {
	return appendBE8(keySlotPrefix(restaurantID, date, clock), seq)
}

// seqSuffix reads the trailing be8 sequence of an index key.
func seqSuffix(key []byte) (uint64, bool) {
	if len(key) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(key)-8:]), true
}

func decodeSeq(v []byte) (uint64, bool) {
	if len(v) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(v), true
}
