package vouchercode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFormat(t *testing.T) {
	code := Generate("GV")

	parts := strings.Split(code, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "GV", parts[0])
	assert.Len(t, parts[1], 4)
	assert.Len(t, parts[2], 4)

	for _, ch := range parts[1] + parts[2] {
		assert.Contains(t, alphabet, string(ch))
	}
}

func TestGenerateExcludesAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "I", "L"} {
		assert.NotContains(t, alphabet, forbidden)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	num := OrderNumber("LW")

	parts := strings.Split(num, "-")
	assert.Len(t, parts, 2)
	assert.Equal(t, "LW", parts[0])
	assert.Len(t, parts[1], 6)
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := Generate("GV")
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
