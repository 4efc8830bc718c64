package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL   string
	HubeauBaseURL string
	GeoBaseURL    string
	Port          int
	BearerToken   string
	HistoryWindow int
	Debug         bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:          8080,
		HistoryWindow: 20,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.HubeauBaseURL = strings.TrimSpace(os.Getenv("HUBEAU_BASE_URL"))
	cfg.GeoBaseURL = strings.TrimSpace(os.Getenv("GEO_BASE_URL"))

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if windowStr := os.Getenv("HISTORY_WINDOW"); windowStr != "" {
		if window, err := strconv.Atoi(windowStr); err == nil && window > 0 {
			cfg.HistoryWindow = window
		} else {
			return cfg, fmt.Errorf("invalid HISTORY_WINDOW: %s", windowStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	debug := strings.TrimSpace(os.Getenv("DEBUG"))
	cfg.Debug = debug == "1" || strings.EqualFold(debug, "true")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
