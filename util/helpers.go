package util

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// GenerateRandomString generates a random string of the specified length
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		// Fall back to a hardcoded string if random generation fails
		return "fallback-random-string-for-testing-purposes-only"
	}

	return base64.URLEncoding.EncodeToString(b)[:length]
}

// NormalizeEmail normalizes an email address (lowercase, trim)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
