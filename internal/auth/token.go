package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// keyEntropyBytes is the amount of randomness behind every issued key.
const keyEntropyBytes = 16

// GenerateKey returns a new URL-safe API key built from 16 random bytes.
func GenerateKey() (string, error) {
	buf := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
