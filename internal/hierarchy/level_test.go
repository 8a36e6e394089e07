package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"", 1},
		{"A", 1},
		{"A00", 1},
		{"A00.0", 2},
		{"A000", 2},
		{"M25.51", 3},
		{"M25.511", 4},
		{"S72.001A", 5},
		{"S72001AXX", 5},
		{"...", 1},
		{"ÉÉ1", 1},
		{"ÉÉ1.2", 2},
		{"Ω12.345", 4},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "A00", Normalize("A00"))
	assert.Equal(t, "A00.0", Normalize("A000"))
	assert.Equal(t, "A00.0", Normalize("A00.0"))
	assert.Equal(t, "M25.511", Normalize(" M2.5511 "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "ÉÉ1.2", Normalize("ÉÉ12"))
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("R50"))
	assert.True(t, IsCategory("R.5"))
	assert.False(t, IsCategory("R50.9"))
	assert.True(t, IsCategory("ÉÉ1"))
}
