// Package config loads process configuration from the environment.
//
// The Config value is constructed once in main and passed into each
// component's constructor; nothing reads the environment after startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// TMDB holds settings for the upstream TMDB API client.
type TMDB struct {
	BaseURL      string
	ImageBaseURL string
	// BearerToken is an optional server-wide credential used when a request
	// does not carry its own Authorization header.
	BearerToken    string
	Language       string
	WatchRegion    string
	RequestTimeout time.Duration
	// CacheTTL is the response cache lifetime for cache-friendly endpoints.
	CacheTTL time.Duration
	// CacheDir is where cached responses are stored. Empty disables caching.
	CacheDir string
}

// RateLimit configures the per-client request limiter. A zero PerSecond
// disables limiting.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

type Config struct {
	Addr           string
	DatabasePath   string
	LogFile        string
	AllowedOrigins []string
	TMDB           TMDB
	RateLimit      RateLimit
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory. Missing values fall back to defaults suitable for
// local development.
func Load() (Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Addr:         getEnv("ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "data/cinevault.db"),
		LogFile:      os.Getenv("LOG_FILE"),
		TMDB: TMDB{
			BaseURL:        getEnv("TMDB_API_BASE", "https://api.themoviedb.org/3"),
			ImageBaseURL:   getEnv("TMDB_IMAGE_BASE", "https://image.tmdb.org/t/p/"),
			BearerToken:    os.Getenv("TMDB_BEARER"),
			Language:       getEnv("TMDB_DEFAULT_LANG", "en-US"),
			WatchRegion:    getEnv("TMDB_WATCH_REGION", "BR"),
			RequestTimeout: 10 * time.Second,
			CacheTTL:       600 * time.Second,
			CacheDir:       getEnv("TMDB_CACHE_DIR", "data/cache"),
		},
		RateLimit: RateLimit{
			PerSecond: 10,
			Burst:     20,
		},
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if v := os.Getenv("TMDB_REQUEST_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("invalid TMDB_REQUEST_TIMEOUT %q", v)
		}
		cfg.TMDB.RequestTimeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("TMDB_CACHE_TTL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return Config{}, fmt.Errorf("invalid TMDB_CACHE_TTL %q", v)
		}
		cfg.TMDB.CacheTTL = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("RATE_LIMIT_PER_SECOND"); v != "" {
		per, err := strconv.ParseFloat(v, 64)
		if err != nil || per < 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_SECOND %q", v)
		}
		cfg.RateLimit.PerSecond = per
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST %q", v)
		}
		cfg.RateLimit.Burst = burst
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
