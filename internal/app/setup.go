package app

import (
	"context"
	"os"
	"strings"
	"time"

	"mtg_collection_tools/internal/config"
	"mtg_collection_tools/internal/scryfall"
	"mtg_collection_tools/internal/sheets"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
// Every log line of the run carries the returned run id.
func SetupEnvironment() string {
	err := godotenv.Load()

	production := os.Getenv("ENV") == "production"
	if production {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	runID := uuid.NewString()
	log.Logger = log.With().Str("run_id", runID).Logger()

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	level, known := ParseLevel(levelStr, production)
	zerolog.SetGlobalLevel(level)
	if !known {
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so logging is already set up
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found; proceeding with existing environment variables.")
	}
	return runID
}

// ParseLevel maps a LOGLEVEL value to a zerolog level. An empty value means
// info, or warn in production. Unknown values fall back to info and report
// known=false.
func ParseLevel(levelStr string, production bool) (level zerolog.Level, known bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	case "panic":
		return zerolog.PanicLevel, true
	case "disabled":
		return zerolog.Disabled, true
	case "":
		if production {
			return zerolog.WarnLevel, true
		}
		return zerolog.InfoLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// InitializeScryfallClient creates the card-database client.
func InitializeScryfallClient(cfg config.ScryfallConfig) *scryfall.Client {
	log.Debug().
		Str("base_url", cfg.BaseURL).
		Str("user_agent", cfg.UserAgent).
		Int("cache_size", cfg.CacheSize).
		Msg("Initializing Scryfall client")
	return scryfall.NewClient(cfg)
}

// InitializeSheetsClient creates the Google Sheets client from a service
// account credentials file.
func InitializeSheetsClient(ctx context.Context, credentialsFile string) (*sheets.Client, error) {
	log.Debug().Str("credentials", credentialsFile).Msg("Initializing sheets client")
	client, err := sheets.NewClient(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("Sheets client initialized successfully")
	return client, nil
}
