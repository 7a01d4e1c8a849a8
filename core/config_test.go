package core

import (
	"testing"
	"time"
)

func TestLoadConfig_RequiresBaseURL(t *testing.T) {
	t.Setenv("ARENA_API_BASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() without ARENA_API_BASE_URL should fail")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ARENA_API_BASE_URL", "https://api.example.com/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	// Trailing slash is stripped so path joining stays predictable
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q, want trailing slash stripped", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want 60s", cfg.HTTPTimeout)
	}
	if cfg.ArtifactsDir != "artifacts" {
		t.Errorf("ArtifactsDir = %q, want %q", cfg.ArtifactsDir, "artifacts")
	}
	if cfg.DevMode {
		t.Error("DevMode should default to false")
	}
	if cfg.SiteGateEnabled() {
		t.Error("SiteGateEnabled() should be false with no password configured")
	}
}

func TestConfig_SiteGateEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"no password", Config{}, false},
		{"plain password", Config{SitePassword: "hunter2"}, true},
		{"hashed password", Config{SitePasswordHash: "$2a$10$abc"}, true},
		{"both", Config{SitePassword: "x", SitePasswordHash: "y"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.SiteGateEnabled(); got != tt.want {
				t.Errorf("SiteGateEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
