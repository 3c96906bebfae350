package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the Narrator API.
type Config struct {
	Environment          string
	HTTPPort             int
	DatabaseURL          string
	DatabaseMaxConns     int
	DataStore            string
	LogLevel             string
	LogFile              string
	AllowedOrigins       []string
	GoogleClientID       string
	GoogleAllowedDomains []string
	GoogleAllowedEmails  []string
}

// Load reads configuration from environment variables with sensible defaults for local development.
func Load() (Config, error) {
	databaseURL, err := getEnvOrFile("DATABASE_URL", "/run/secrets/narrator_database_url")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:          strings.ToLower(getEnv("APP_ENV", "development")),
		DatabaseURL:          databaseURL,
		DataStore:            strings.ToLower(getEnv("DATA_STORE", "memory")),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:              strings.TrimSpace(os.Getenv("LOG_FILE")),
		AllowedOrigins:       parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		GoogleClientID:       strings.TrimSpace(os.Getenv("AUTH_GOOGLE_CLIENT_ID")),
		GoogleAllowedDomains: parseCSV(os.Getenv("AUTH_GOOGLE_ALLOWED_DOMAINS")),
		GoogleAllowedEmails:  parseCSV(os.Getenv("AUTH_GOOGLE_ALLOWED_EMAILS")),
	}

	portValue := getEnv("PORT", getEnv("HTTP_PORT", "5000"))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	maxConnsValue := getEnv("DB_MAX_CONNS", "10")
	maxConns, err := strconv.Atoi(maxConnsValue)
	if err != nil || maxConns <= 0 {
		return Config{}, fmt.Errorf("invalid DB_MAX_CONNS %q", maxConnsValue)
	}
	cfg.DatabaseMaxConns = maxConns

	switch cfg.DataStore {
	case "memory", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DATA_STORE %q", cfg.DataStore)
	}

	if cfg.DataStore == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATA_STORE is postgres but DATABASE_URL is not set")
	}

	if !cfg.IsDevelopment() {
		if cfg.GoogleClientID == "" {
			return Config{}, fmt.Errorf("AUTH_GOOGLE_CLIENT_ID is required when APP_ENV is %s", cfg.Environment)
		}
		if len(cfg.AllowedOrigins) == 0 {
			return Config{}, fmt.Errorf("ALLOWED_ORIGINS must define at least one origin outside development")
		}
		for _, origin := range cfg.AllowedOrigins {
			if origin == "*" {
				return Config{}, fmt.Errorf("ALLOWED_ORIGINS cannot contain wildcard outside development")
			}
		}
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repositories should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

// IsDevelopment reports whether the API runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// FederatedLoginEnabled reports whether Google ID tokens can be verified.
func (c Config) FederatedLoginEnabled() bool {
	return c.GoogleClientID != ""
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIURL             string
	RedirectURL        string
	GoogleClientID     string
	GoogleClientSecret string
	LogLevel           string
	LogFile            string
	RequestTimeout     time.Duration
}

// LoadClient reads the terminal client's configuration from the environment.
func LoadClient() (ClientConfig, error) {
	secret, err := getEnvOrFile("AUTH_GOOGLE_CLIENT_SECRET", "")
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		APIURL:             strings.TrimRight(getEnv("NARRATOR_API_URL", "http://localhost:5000"), "/"),
		RedirectURL:        getEnv("NARRATOR_REDIRECT_URL", "http://127.0.0.1:8765/callback"),
		GoogleClientID:     strings.TrimSpace(os.Getenv("AUTH_GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(secret),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		LogFile:            strings.TrimSpace(os.Getenv("LOG_FILE")),
	}

	timeoutValue := getEnv("NARRATOR_REQUEST_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutValue)
	if err != nil || timeout <= 0 {
		return ClientConfig{}, fmt.Errorf("invalid NARRATOR_REQUEST_TIMEOUT %q", timeoutValue)
	}
	cfg.RequestTimeout = timeout

	if _, err := url.ParseRequestURI(cfg.APIURL); err != nil {
		return ClientConfig{}, fmt.Errorf("invalid NARRATOR_API_URL %q: %w", cfg.APIURL, err)
	}
	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil || redirect.Host == "" {
		return ClientConfig{}, fmt.Errorf("invalid NARRATOR_REDIRECT_URL %q", cfg.RedirectURL)
	}

	return cfg, nil
}

// GoogleEnabled reports whether the federated sign-in option can be offered.
func (c ClientConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
