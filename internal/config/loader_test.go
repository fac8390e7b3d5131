package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CSV", "OUT_JSON", "OUT_CSV", "SLEEP", "NAMED_MODE", "SHEET_ID", "SHEET_RANGE",
		"OUT_SHEET_RANGE", "CREDENTIALS", "GOOGLE_CREDENTIALS_FILE", "CONFIG", "OUT_DIR", "IMAGE_SIZE",
		"SCRYFALL_BASE_URL", "SCRYFALL_USER_AGENT", "SCRYFALL_CACHE_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadPriceConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadPriceConfig([]string{"--csv", "Bulk.csv"})
	require.NoError(t, err)
	assert.Equal(t, "Bulk.csv", cfg.CSV)
	assert.Equal(t, "data/prices.json", cfg.OutJSON)
	assert.Equal(t, "", cfg.OutCSV)
	assert.Equal(t, 0.11, cfg.Sleep)
	assert.Equal(t, "fuzzy", cfg.NamedMode)
	assert.Equal(t, "credentials.json", cfg.Credentials)
	assert.Equal(t, DefaultScryfallConfig, cfg.Scryfall)
	assert.Equal(t, 110*time.Millisecond, Delay(cfg.Sleep))
}

func TestLoadPriceConfigEnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUT_JSON", "env/prices.json")
	t.Setenv("NAMED_MODE", "exact")
	t.Setenv("SCRYFALL_USER_AGENT", "Collection/2.0")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "sa.json")

	cfg, err := LoadPriceConfig([]string{"--csv", "in.csv", "--named-mode", "fuzzy", "--sleep", "0"})
	require.NoError(t, err)
	assert.Equal(t, "env/prices.json", cfg.OutJSON)
	assert.Equal(t, "fuzzy", cfg.NamedMode, "flags win over the environment")
	assert.Equal(t, 0.0, cfg.Sleep)
	assert.Equal(t, "Collection/2.0", cfg.Scryfall.UserAgent)
	assert.Equal(t, "sa.json", cfg.Credentials)
}

func TestLoadPriceConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
csv: from-file.csv
out-csv: out/priced.csv
scryfall:
  search_timeout: 5s
  cache_size: 0
`), 0o644))

	cfg, err := LoadPriceConfig([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "from-file.csv", cfg.CSV)
	assert.Equal(t, "out/priced.csv", cfg.OutCSV)
	assert.Equal(t, 5*time.Second, cfg.Scryfall.SearchTimeout)
	assert.Equal(t, 0, cfg.Scryfall.CacheSize)
	assert.Equal(t, DefaultScryfallConfig.NamedTimeout, cfg.Scryfall.NamedTimeout)
}

func TestLoadPriceConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing csv", []string{}},
		{"negative sleep", []string{"--csv", "a.csv", "--sleep", "-1"}},
		{"unknown named mode", []string{"--csv", "a.csv", "--named-mode", "loose"}},
		{"sheet output without sheet", []string{"--csv", "a.csv", "--out-sheet-range", "Prices!A1"}},
		{"missing config file", []string{"--csv", "a.csv", "--config", "/nonexistent/prices.yaml"}},
		{"unknown flag", []string{"--csv", "a.csv", "--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadPriceConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadPriceConfigSheetOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadPriceConfig([]string{"--sheet-id", "abc123", "--out-sheet-range", "Priced!A1"})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.CSV)
	assert.Equal(t, "Sheet1!A1:Z10000", cfg.SheetRange)
}

func TestLoadPriceConfigHelp(t *testing.T) {
	clearEnv(t)
	_, err := LoadPriceConfig([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestLoadImageConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadImageConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "Bulk.csv", cfg.CSV)
	assert.Equal(t, "card_images", cfg.OutDir)
	assert.Equal(t, "large", cfg.ImageSize)
	assert.Equal(t, 0.0, cfg.Sleep)

	_, err = LoadImageConfig([]string{"--image-size", "huge"})
	assert.Error(t, err)
}
