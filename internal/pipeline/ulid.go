package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job and document IDs are ULIDs: 26-character Crockford Base32
// strings with a 48-bit millisecond timestamp prefix, generated
// without an external dependency.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in first 6 bytes (big-endian 48-bit).
	binary.BigEndian.PutUint64(b[:8], ts<<16)
	// Random in remaining 10 bytes.
	rand.Read(b[6:])
	// Embed sequence in bytes 6-7 to ensure uniqueness within same ms.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

// encodeULID renders 128 bits as 26 Crockford Base32 characters. The
// value is left-padded with two zero bits so 130 bits split evenly
// into 5-bit groups.
func encodeULID(b [16]byte) string {
	var out [26]byte
	for i := range out {
		v := 0
		for j := 0; j < 5; j++ {
			p := 5*i + j - 2
			v <<= 1
			if p >= 0 {
				v |= int(b[p/8]>>(7-p%8)) & 1
			}
		}
		out[i] = crockford[v]
	}
	return string(out[:])
}
