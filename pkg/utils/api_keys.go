package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const apiKeyPrefix = "sf_"

// GenerateAPIKey returns a prefixed, URL-safe random key of n random bytes.
func GenerateAPIKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return apiKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
