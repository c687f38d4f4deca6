package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber builds a human-readable order number of the form
// <prefix>-<6-digit zero-padded block>-<6-char uppercase alphanumeric>.
// Uniqueness is enforced by the orders table; callers retry on collision.
func GenerateOrderNumber(prefix string) (string, error) {
	block, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate order number block: %w", err)
	}

	suffix := make([]byte, 6)
	for i := range suffix {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(numberAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate order number suffix: %w", err)
		}
		suffix[i] = numberAlphabet[idx.Int64()]
	}

	return fmt.Sprintf("%s-%06d-%s", prefix, block.Int64(), suffix), nil
}
