package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	MinCustomCodeLength = 3
	MaxCustomCodeLength = 10
)

var (
	customCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	charsetSize       = big.NewInt(int64(len(charset)))
)

// GenerateShortCode returns a random base62 string of the given length.
func GenerateShortCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}

// IsValidCustomCode reports whether code is 3-10 characters of [A-Za-z0-9_-].
func IsValidCustomCode(code string) bool {
	if len(code) < MinCustomCodeLength || len(code) > MaxCustomCodeLength {
		return false
	}
	return customCodePattern.MatchString(code)
}
