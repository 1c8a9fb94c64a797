package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ApplicationID derives a stable identifier for the index-th application of a
// predicate. Loading the same program twice yields the same IDs.
func ApplicationID(predicate string, index int) string {
	h := sha256.New()
	h.Write([]byte(predicate))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(index)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
