package outwriter

import (
	"testing"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		fixed    int
		expected int
	}{
		{"narrow terminal clamps to minimum", 40, 45, 15},
		{"medium terminal", 100, 45, 35},
		{"wide terminal clamps to maximum", 300, 45, 70},
		{"no fixed columns", 80, 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, GetMaxNameWidth(cfg, tt.fixed))
		})
	}
}

func TestGetMaxNameWidthAutoDetect(t *testing.T) {
	// Tests run without a terminal, so detection falls back to 80 columns.
	width := GetMaxNameWidth(&contract.Config{}, 0)
	assert.GreaterOrEqual(t, width, 15)
	assert.LessOrEqual(t, width, 70)
}
