package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"padded string", "  Alice ", "Alice"},
		{"bytes", []byte("bob"), "bob"},
		{"whole float", float64(42), "42"},
		{"fractional float", 1.5, "1.5"},
		{"int", 7, "7"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestCell(t *testing.T) {
	row := []any{"a@x.com", "Alice"}

	assert.Equal(t, "a@x.com", Cell(row, 0))
	assert.Equal(t, "Alice", Cell(row, 1))
	assert.Equal(t, "", Cell(row, 2))
	assert.Equal(t, "", Cell(row, -1))
	assert.Equal(t, "", Cell(nil, 0))
}
