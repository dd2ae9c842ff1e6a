package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL       = "https://suitmedia-backend.suitdev.com/api"
	defaultBlockedImageHost = "assets.suitdev.com"
	defaultAltImageHost     = "suitmedia.static-assets.id"
	defaultSessionTTL       = 30 * time.Minute
)

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL       string
	DBPath           string
	SessionTTL       time.Duration
	LogLevel         string
	LogFile          string
	LazyImages       bool
	BlockedImageHost string
	AltImageHost     string
	MetricsAddr      string
}

// LoadFromEnv reads the IDEAS_* variables. A .env file in the working
// directory, when present, seeds variables that are not already set.
func LoadFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:       getEnv("IDEAS_API_BASE_URL", defaultAPIBaseURL),
		DBPath:           getEnv("IDEAS_DB_PATH", "ideas.db"),
		SessionTTL:       getDurationEnv("IDEAS_SESSION_TTL", defaultSessionTTL),
		LogLevel:         getEnv("IDEAS_LOG_LEVEL", "info"),
		LogFile:          getEnv("IDEAS_LOG_FILE", "ideas.log"),
		LazyImages:       getBoolEnv("IDEAS_LAZY_IMAGES", true),
		BlockedImageHost: getEnv("IDEAS_BLOCKED_IMAGE_HOST", defaultBlockedImageHost),
		AltImageHost:     getEnv("IDEAS_ALTERNATE_IMAGE_HOST", defaultAltImageHost),
		MetricsAddr:      os.Getenv("IDEAS_METRICS_ADDR"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("APIBaseURL must be an absolute http(s) URL: %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SessionTTL must be positive: %s", c.SessionTTL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.BlockedImageHost == "" || c.AltImageHost == "" {
		return errors.New("image hosts must not be empty")
	}
	if c.BlockedImageHost == c.AltImageHost {
		return fmt.Errorf("alternate image host must differ from blocked host: %s", c.AltImageHost)
	}
	if strings.Contains(c.AltImageHost, c.BlockedImageHost) {
		return fmt.Errorf("alternate image host must not contain blocked host %q: %s", c.BlockedImageHost, c.AltImageHost)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// bare integers are seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
