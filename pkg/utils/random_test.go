package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShortCode(t *testing.T) {
	length := 8
	code, err := GenerateShortCode(length)

	assert.NoError(t, err)
	assert.Equal(t, length, len(code))

	// Ensure only charset characters are used
	for _, char := range code {
		assert.True(t, strings.Contains(charset, string(char)))
	}
	assert.True(t, IsValidCustomCode(code))
}

func TestGenerateShortCode_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := GenerateShortCode(7)
		assert.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestGenerateShortCode_InvalidLength(t *testing.T) {
	_, err := GenerateShortCode(0)
	assert.Error(t, err)
}

func TestIsValidCustomCode(t *testing.T) {
	valid := []string{"abc", "promo", "A_b-9", "abcdefghij"}
	for _, code := range valid {
		assert.True(t, IsValidCustomCode(code), code)
	}

	invalid := []string{"", "ab", "abcdefghijk", "has space", "emoji😀", "slash/x", "dot.x"}
	for _, code := range invalid {
		assert.False(t, IsValidCustomCode(code), code)
	}
}
