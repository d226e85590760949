package datatree

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// fingerprint produces a short, stable correlation tag for a sequence
// of recorded draw values, attached to debug/warn log lines so a split
// or a flaky detection can be traced back to the path that caused it.
func fingerprint(path []uint64) string {
	buf := make([]byte, 0, len(path)*8)
	for _, v := range path {
		buf = binary.BigEndian.AppendUint64(buf, v)
	}
	sum := sha3.Sum256(buf)
	return hex.EncodeToString(sum[:6])
}
