package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing spaces", "  Ruang Melati  ", "Ruang Melati"},
		{"internal runs collapsed", "Ruang \t Melati", "Ruang Melati"},
		{"newlines collapsed", "line1\nline2", "line1 line2"},
		{"already normalized", "Ruang Melati", "Ruang Melati"},
		{"unicode preserved", "Café 3", "Café 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrimAndNormalize(tt.input))
		})
	}
}

func TestTrimAndNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"  a   b  ", "x\ty", "", "plain"}
	for _, in := range inputs {
		once := TrimAndNormalize(in)
		assert.Equal(t, once, TrimAndNormalize(once))
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "rina", NormalizeUsername("  Rina  "))
	assert.Equal(t, "budi s", NormalizeUsername("Budi   S"))
	assert.Equal(t, "", NormalizeUsername("   "))
}

func TestPipelineAppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "b" },
		func(s string) string { return s + "c" },
	}
	assert.Equal(t, "abc", p.Apply("a"))
}
