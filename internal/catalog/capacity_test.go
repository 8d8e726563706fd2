// internal/catalog/capacity_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		label    string
		expected float64
	}{
		{"1TB", 1024},
		{"2TB", 2048},
		{"512GB", 512},
		{"512 GB", 512},
		{"2048MB", 2},
		{"1024KB", 1.0 / 1024},
		{"500", 500},
		{"1.5TB", 1536},
		{"1,5TB", 1536},
		{"0.5GB", 0.5},
		{"gb", 0},
		{"", 0},
		{"N/A", 0},
		{"  64gb  ", 64},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ParseCapacity(tt.label), 1e-9)
		})
	}
}

func TestParseCapacityOrdering(t *testing.T) {
	// Labels in mixed units sort by real size, not lexically.
	assert.Less(t, ParseCapacity("2048MB"), ParseCapacity("512GB"))
	assert.Less(t, ParseCapacity("512GB"), ParseCapacity("1TB"))
	assert.Less(t, ParseCapacity("999GB"), ParseCapacity("1TB"))
}
