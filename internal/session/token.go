package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken draws a 32-character lowercase hex token from a
// cryptographically unpredictable source: two independent 64-bit values,
// read from crypto/rand and concatenated. Never reuse a seeded
// pseudorandom generator across the process lifetime for this.
func GenerateToken() (string, error) {
	var raw [16]byte // two 64-bit values, back to back
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("failed to draw random token bytes: %w", err)
	}
	return hex.EncodeToString(raw[:]), nil
}
