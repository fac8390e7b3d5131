package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PriceFlags registers the update-prices command line surface.
func PriceFlags(fs *pflag.FlagSet) {
	fs.String("csv", "", "Input CSV (e.g. Bulk.csv)")
	fs.String("out-json", "data/prices.json", "Output JSON price index")
	fs.String("out-csv", "", "Optional: write a CSV with price columns")
	fs.Float64("sleep", 0.11, "Pause between rows (seconds)")
	fs.String("named-mode", "fuzzy", "Fallback single-card lookup mode (fuzzy or exact)")
	fs.String("sheet-id", "", "Read the inventory from this Google Sheet instead of --csv")
	fs.String("sheet-range", "Sheet1!A1:Z10000", "Range of the inventory inside --sheet-id")
	fs.String("out-sheet-range", "", "Optional: write the priced inventory back to this range of --sheet-id")
	fs.String("credentials", "credentials.json", "Google service account credentials file")
	fs.String("config", "", "Optional YAML config file")
}

// ImageFlags registers the fetch-images command line surface.
func ImageFlags(fs *pflag.FlagSet) {
	fs.String("csv", "Bulk.csv", "Input CSV with Name and Scryfall ID columns")
	fs.String("out-dir", "card_images", "Directory that receives the images")
	fs.String("image-size", "large", "Scryfall image size (small, normal, large)")
	fs.Float64("sleep", 0, "Pause between downloads (seconds)")
	fs.String("config", "", "Optional YAML config file")
}

// LoadPriceConfig parses args and resolves the update-prices configuration.
func LoadPriceConfig(args []string) (*PriceConfig, error) {
	fs := pflag.NewFlagSet("update-prices", pflag.ContinueOnError)
	PriceFlags(fs)
	v, err := newViper(fs, args)
	if err != nil {
		return nil, err
	}
	v.BindEnv("credentials", "GOOGLE_CREDENTIALS_FILE")

	cfg := &PriceConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadImageConfig parses args and resolves the fetch-images configuration.
func LoadImageConfig(args []string) (*ImageConfig, error) {
	fs := pflag.NewFlagSet("fetch-images", pflag.ContinueOnError)
	ImageFlags(fs)
	v, err := newViper(fs, args)
	if err != nil {
		return nil, err
	}

	cfg := &ImageConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper layers flags > environment > config file > defaults.
func newViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	def := DefaultScryfallConfig
	v.SetDefault("scryfall.base_url", def.BaseURL)
	v.SetDefault("scryfall.user_agent", def.UserAgent)
	v.SetDefault("scryfall.search_timeout", def.SearchTimeout)
	v.SetDefault("scryfall.named_timeout", def.NamedTimeout)
	v.SetDefault("scryfall.card_timeout", def.CardTimeout)
	v.SetDefault("scryfall.image_timeout", def.ImageTimeout)
	v.SetDefault("scryfall.cache_size", def.CacheSize)
	v.SetDefault("scryfall.requests_per_second", def.RequestsPerSecond)
	v.SetDefault("scryfall.request_burst", def.RequestBurst)

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}
