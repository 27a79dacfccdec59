package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrompts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain json", `["One?", "Two?", "Three?"]`, []string{"One?", "Two?", "Three?"}},
		{"fenced json", "```json\n[\"One?\", \" \", \"Two?\"]\n```", []string{"One?", "Two?"}},
		{"numbered lines", "1. How do you picture weekdays?\n2. Who handles school runs?\n", []string{
			"How do you picture weekdays?", "Who handles school runs?",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrompts(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrompts_Empty(t *testing.T) {
	_, err := ParsePrompts("   ")
	assert.Error(t, err)
}
