package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashKey joins parts with a separator that cannot appear in normalized
// input and returns a short hex digest suitable for cache keys.
func HashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:16])
}
