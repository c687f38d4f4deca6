package orders

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^SNK-\d{6}-[A-Z0-9]{6}$`)

	for i := 0; i < 100; i++ {
		number, err := GenerateOrderNumber("SNK")
		assert.NoError(t, err)
		assert.Regexp(t, pattern, number)
	}
}

func TestGenerateOrderNumberPrefix(t *testing.T) {
	number, err := GenerateOrderNumber("SHOP")
	assert.NoError(t, err)
	assert.Regexp(t, `^SHOP-`, number)
}

func TestGenerateOrderNumberSpread(t *testing.T) {
	// Not a uniqueness guarantee, the table constraint owns that. This only
	// catches a degenerate generator that repeats itself immediately.
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		number, err := GenerateOrderNumber("SNK")
		assert.NoError(t, err)
		seen[number] = true
	}
	assert.Greater(t, len(seen), 990)
}
