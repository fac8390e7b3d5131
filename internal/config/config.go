package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ScryfallConfig controls how the card-database client talks to the API.
type ScryfallConfig struct {
	BaseURL       string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent     string        `mapstructure:"user_agent" validate:"required"`
	SearchTimeout time.Duration `mapstructure:"search_timeout" validate:"gt=0"`
	NamedTimeout  time.Duration `mapstructure:"named_timeout" validate:"gt=0"`
	CardTimeout   time.Duration `mapstructure:"card_timeout" validate:"gt=0"`
	ImageTimeout  time.Duration `mapstructure:"image_timeout" validate:"gt=0"`
	CacheSize     int           `mapstructure:"cache_size" validate:"gte=0"`

	// Client-wide ceiling on outgoing requests; 0 disables it.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	RequestBurst      int     `mapstructure:"request_burst" validate:"gte=1"`
}

// PriceConfig is the configuration of the update-prices command.
type PriceConfig struct {
	CSV           string         `mapstructure:"csv" validate:"required_without=SheetID"`
	SheetID       string         `mapstructure:"sheet-id"`
	SheetRange    string         `mapstructure:"sheet-range" validate:"required_with=SheetID"`
	OutJSON       string         `mapstructure:"out-json" validate:"required"`
	OutCSV        string         `mapstructure:"out-csv"`
	OutSheetRange string         `mapstructure:"out-sheet-range" validate:"excluded_without=SheetID"`
	Credentials   string         `mapstructure:"credentials" validate:"required_with=SheetID"`
	Sleep         float64        `mapstructure:"sleep" validate:"gte=0"`
	NamedMode     string         `mapstructure:"named-mode" validate:"oneof=fuzzy exact"`
	Scryfall      ScryfallConfig `mapstructure:"scryfall"`
}

// ImageConfig is the configuration of the fetch-images command.
type ImageConfig struct {
	CSV       string         `mapstructure:"csv" validate:"required"`
	OutDir    string         `mapstructure:"out-dir" validate:"required"`
	ImageSize string         `mapstructure:"image-size" validate:"oneof=small normal large"`
	Sleep     float64        `mapstructure:"sleep" validate:"gte=0"`
	Scryfall  ScryfallConfig `mapstructure:"scryfall"`
}

// DefaultScryfallConfig allows 20s for searches and 12s for the single-card
// fallback.
var DefaultScryfallConfig = ScryfallConfig{
	BaseURL:       "https://api.scryfall.com",
	UserAgent:     "MTG-Price-Updater/1.0",
	SearchTimeout: 20 * time.Second,
	NamedTimeout:  12 * time.Second,
	CardTimeout:   30 * time.Second,
	ImageTimeout:  30 * time.Second,
	CacheSize:     1024,

	RequestsPerSecond: 10,
	RequestBurst:      10,
}

// Delay converts a --sleep value in seconds to a duration.
func Delay(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

var validate = validator.New()

// Validate checks struct tags on any of the config types.
func Validate(cfg interface{}) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
