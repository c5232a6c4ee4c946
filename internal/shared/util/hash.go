package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortHash returns a short filesystem-safe digest of the input, used to
// derive stable, collision-avoiding file names.
func ShortHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:6])
}
