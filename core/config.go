package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration values for the client.
type Config struct {
	// APIBaseURL is the base URL of the Art Arena backend (required).
	// Example: https://api.aiartarena.com
	APIBaseURL string

	// SitePassword enables the site-wide password gate when non-empty.
	// Compared in plain text against the value submitted at unlock.
	SitePassword string

	// SitePasswordHash enables the gate with a bcrypt hash instead of a
	// plaintext password. Takes precedence over SitePassword when both
	// are set.
	SitePasswordHash string

	// DataDir is the directory for the local session database.
	DataDir string

	// ArtifactsDir is the directory where downloaded images are saved.
	ArtifactsDir string

	// HTTPTimeout is the timeout for backend API calls. The backend
	// signals its own slowness with 504, so this only bounds transport
	// stalls.
	HTTPTimeout time.Duration

	// InferenceBaseURL is the OpenAI-compatible endpoint used when the
	// user supplies their own provider API key.
	InferenceBaseURL string

	// DevMode enables debug logging and human-readable console output.
	DevMode bool

	// LogFilePath is the path to the rotating log file.
	LogFilePath string
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. Only the API base URL is required; everything else falls back
// to a working default.
func LoadConfig() (*Config, error) {
	baseURL := GetEnvOrDefault("ARENA_API_BASE_URL", "")
	if baseURL == "" {
		return nil, fmt.Errorf("core: ARENA_API_BASE_URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	dataDir := GetEnvOrDefault("ARENA_DATA_DIR", GetDataDirectory())

	cfg := &Config{
		APIBaseURL:       baseURL,
		SitePassword:     GetEnvOrDefault("ARENA_SITE_PASSWORD", ""),
		SitePasswordHash: GetEnvOrDefault("ARENA_SITE_PASSWORD_HASH", ""),
		DataDir:          dataDir,
		ArtifactsDir:     GetEnvOrDefault("ARENA_ARTIFACTS_DIR", "artifacts"),
		HTTPTimeout:      ParseDurationEnv("ARENA_HTTP_TIMEOUT_SECONDS", 60),
		InferenceBaseURL: GetEnvOrDefault("ARENA_INFERENCE_BASE_URL", "https://router.huggingface.co/v1"),
		DevMode:          ParseBoolEnv("DEV_MODE", false),
		LogFilePath:      GetEnvOrDefault("ARENA_LOG_FILE", filepath.Join(dataDir, "artarena.log")),
	}

	return cfg, nil
}

// SiteGateEnabled reports whether the site-wide password gate is configured.
// The gate and per-user token auth are independent checks; this one only
// concerns the former.
func (c *Config) SiteGateEnabled() bool {
	return c.SitePassword != "" || c.SitePasswordHash != ""
}
