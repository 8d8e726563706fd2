// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(8)
	require.NoError(t, err)
	assert.Len(t, s, 8)

	other, err := GenerateRandomString(8)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestGenerateOrderNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n, err := GenerateOrderNumber()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(n, "ORD-"))
		assert.False(t, seen[n], "order numbers must not repeat")
		seen[n] = true
	}
}
