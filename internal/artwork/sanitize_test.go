package artwork

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Lightning Bolt", "Lightning Bolt"},
		{"Fire // Ice", "Fire -- Ice"},
		{"Circle of Protection: Red", "Circle of Protection- Red"},
		{"Jace, the Mind Sculptor", "Jace the Mind Sculptor"},
		{"Æther Vial", "ther Vial"},
		{"Urza's  Saga", "Urzas Saga"},
		{"  B.F.M. (Big Furry Monster)  ", "BFM Big Furry Monster"},
		{"Tab\tand\nnewline", "Tab and newline"},
		{"Card\u00a0Name", "Card Name"},
		{"Wide\u3000\u2003Space", "Wide Space"},
		{"Vertical\vtab", "Vertical tab"},
		{"\u00a0Padded\u2028", "Padded"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFileName(tt.input))
		})
	}
}

func TestSanitizeFileNameIdempotent(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-zA-Z0-9 \-]*$`)
	inputs := []string{
		"Fire // Ice",
		"Circle of Protection: Red",
		"Lim-Dûl's Vault",
		"\"Ach! Hans, Run!\"",
		"Who / What / When / Where / Why",
		"   spaced    out   ",
	}

	for _, in := range inputs {
		once := SanitizeFileName(in)
		assert.Equal(t, once, SanitizeFileName(once), in)
		assert.Regexp(t, allowed, once)
		assert.NotContains(t, once, "  ")
	}
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, filepath.Join("card_images", "Fire -- Ice.jpg"), ImagePath("card_images", "Fire // Ice"))
}
