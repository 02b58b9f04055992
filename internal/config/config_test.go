package config

import (
	"testing"
	"time"
)

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"Go duration", "45s", 45 * time.Second},
		{"Plain seconds", "12", 12 * time.Second},
		{"Milliseconds", "250ms", 250 * time.Millisecond},
		{"Garbage falls back", "soon", time.Minute},
		{"Empty falls back", "", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DOCCHAT_TEST_DURATION", tt.value)
			got := getEnvAsDuration("DOCCHAT_TEST_DURATION", time.Minute)
			if got != tt.expected {
				t.Errorf("getEnvAsDuration(%q) = %v; want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STATE_STORE", "Redis")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("BACKEND_RETRY_ATTEMPTS", "5")

	cfg := Load()
	if cfg.State.Kind != "redis" {
		t.Errorf("State.Kind = %q; want lower-cased %q", cfg.State.Kind, "redis")
	}
	if !cfg.Tracing.Enabled {
		t.Errorf("Tracing.Enabled = false; want true")
	}
	if cfg.Backend.RetryAttempts != 5 {
		t.Errorf("Backend.RetryAttempts = %d; want 5", cfg.Backend.RetryAttempts)
	}
	if cfg.Events.Topic != "state.changed" {
		t.Errorf("Events.Topic = %q; want default", cfg.Events.Topic)
	}
}
