package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"

	"github.com/rzbill/tablo/internal/model"
)

// Record framing: varint headerLen | header | payload | crc32c(header|payload).
// The header carries the booking id, the payload the JSON booking.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errCorrupt = errors.New("ledger: corrupt record")

func frame(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

func unframe(b []byte) (header, payload []byte, ok bool) {
	if len(b) < 1+4 {
		return nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || uint64(len(b)-n-4) < hlen {
		return nil, nil, false
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return nil, nil, false
	}
	return header, payload, true
}

func encodeBooking(b model.Booking) ([]byte, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return frame([]byte(b.ID), payload), nil
}

func decodeBooking(raw []byte) (model.Booking, error) {
	header, payload, ok := unframe(raw)
	if !ok {
		return model.Booking{}, errCorrupt
	}
	var b model.Booking
	if err := json.Unmarshal(payload, &b); err != nil {
		return model.Booking{}, errCorrupt
	}
	if b.ID != string(header) {
		return model.Booking{}, errCorrupt
	}
	return b, nil
}
