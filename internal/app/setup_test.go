package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input      string
		production bool
		want       zerolog.Level
		known      bool
	}{
		{"debug", false, zerolog.DebugLevel, true},
		{"INFO", false, zerolog.InfoLevel, true},
		{"warning", false, zerolog.WarnLevel, true},
		{"error", true, zerolog.ErrorLevel, true},
		{"disabled", false, zerolog.Disabled, true},
		{"", false, zerolog.InfoLevel, true},
		{"", true, zerolog.WarnLevel, true},
		{"loud", false, zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, known := ParseLevel(tt.input, tt.production)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}
