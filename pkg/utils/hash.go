package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Station tokens are never stored as plain text. The hash identifies the
// timing point in the database, so no salt can be used here; the tokens are
// generated random strings, which makes a plain sha256 acceptable.
func HashStationToken(arg string) string {
	hasher := sha256.New()
	hasher.Write([]byte(arg))
	return hex.EncodeToString(hasher.Sum(nil))
}
