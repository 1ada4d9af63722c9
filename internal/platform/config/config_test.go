package config

import (
	"errors"
	"slices"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "LINK_CHECK_CONCURRENCY", "LINK_CHECK_PER_HOST",
	"LINK_CHECK_TIMEOUT", "LINK_CHECK_BUDGET", "LINK_CHECK_RATE", "FETCH_TIMEOUT",
	"LINKS_OUTPUT", "ALLOW_PRIVATE_TARGETS", "MOCK_PAGES_ENABLED",
	"CORS_ALLOWED_ORIGINS", "SHUTDOWN_GRACE",
}

// clearEnv blanks every variable Load reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.LinkCheckConcurrency != 10 {
		t.Errorf("LinkCheckConcurrency = %d, want 10", cfg.LinkCheckConcurrency)
	}
	if cfg.LinkCheckTimeout != 5*time.Second {
		t.Errorf("LinkCheckTimeout = %s, want 5s", cfg.LinkCheckTimeout)
	}
	if cfg.LinksOutput != "count" {
		t.Errorf("LinksOutput = %q, want %q", cfg.LinksOutput, "count")
	}
	if cfg.AllowPrivateTargets {
		t.Error("AllowPrivateTargets = true, want false")
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LINK_CHECK_CONCURRENCY", "20")
	t.Setenv("LINK_CHECK_TIMEOUT", "750ms")
	t.Setenv("LINK_CHECK_RATE", "2.5")
	t.Setenv("LINKS_OUTPUT", "list")
	t.Setenv("ALLOW_PRIVATE_TARGETS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.LinkCheckConcurrency != 20 {
		t.Errorf("LinkCheckConcurrency = %d, want 20", cfg.LinkCheckConcurrency)
	}
	if cfg.LinkCheckTimeout != 750*time.Millisecond {
		t.Errorf("LinkCheckTimeout = %s, want 750ms", cfg.LinkCheckTimeout)
	}
	if cfg.LinkCheckRate != 2.5 {
		t.Errorf("LinkCheckRate = %g, want 2.5", cfg.LinkCheckRate)
	}
	if cfg.LinksOutput != "list" {
		t.Errorf("LinksOutput = %q, want %q", cfg.LinksOutput, "list")
	}
	if !cfg.AllowPrivateTargets {
		t.Error("AllowPrivateTargets = false, want true")
	}
	want := []string{"https://a.example", "https://b.example"}
	if !slices.Equal(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "port not a number", key: "PORT", value: "http", wantErr: errInvalidPort},
		{name: "port out of range", key: "PORT", value: "70000", wantErr: errInvalidPort},
		{name: "concurrency zero", key: "LINK_CHECK_CONCURRENCY", value: "0", wantErr: errConcurrencyOutOfRange},
		{name: "concurrency too high", key: "LINK_CHECK_CONCURRENCY", value: "500", wantErr: errConcurrencyOutOfRange},
		{name: "per host zero", key: "LINK_CHECK_PER_HOST", value: "0", wantErr: errPerHostOutOfRange},
		{name: "negative timeout", key: "LINK_CHECK_TIMEOUT", value: "-1s", wantErr: errNonPositiveDuration},
		{name: "negative rate", key: "LINK_CHECK_RATE", value: "-3", wantErr: errNegativeRate},
		{name: "unknown links output", key: "LINKS_OUTPUT", value: "table", wantErr: errInvalidLinksOutput},
		{name: "links output is case-sensitive", key: "LINKS_OUTPUT", value: "LIST", wantErr: errInvalidLinksOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_UnparsableValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LINK_CHECK_BUDGET", "soon")
	t.Setenv("MOCK_PAGES_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LinkCheckBudget != 30*time.Second {
		t.Errorf("LinkCheckBudget = %s, want 30s", cfg.LinkCheckBudget)
	}
	if !cfg.MockPagesEnabled {
		t.Error("MockPagesEnabled = false, want fallback true")
	}
}
