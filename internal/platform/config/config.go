package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Bahjat/page-analyzer/internal/model"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: LINK_CHECK_CONCURRENCY must be 1-100")
	errPerHostOutOfRange     = errors.New("config: LINK_CHECK_PER_HOST must be 1-100")
	errNonPositiveDuration   = errors.New("config: duration must be positive")
	errNegativeRate          = errors.New("config: LINK_CHECK_RATE must not be negative")
	errInvalidLinksOutput    = errors.New("config: LINKS_OUTPUT must be \"count\" or \"list\"")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                 string
	LogLevel             string
	LinkCheckConcurrency int
	LinkCheckPerHost     int
	LinkCheckTimeout     time.Duration
	LinkCheckBudget      time.Duration
	LinkCheckRate        float64
	FetchTimeout         time.Duration
	LinksOutput          model.LinkOutputMode
	AllowPrivateTargets  bool
	MockPagesEnabled     bool
	CORSAllowedOrigins   []string
	ShutdownGrace        time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "ERROR"),
		LinkCheckConcurrency: getEnvAsInt("LINK_CHECK_CONCURRENCY", 10),
		LinkCheckPerHost:     getEnvAsInt("LINK_CHECK_PER_HOST", 4),
		LinkCheckTimeout:     getEnvAsDuration("LINK_CHECK_TIMEOUT", 5*time.Second),
		LinkCheckBudget:      getEnvAsDuration("LINK_CHECK_BUDGET", 30*time.Second),
		LinkCheckRate:        getEnvAsFloat("LINK_CHECK_RATE", 0),
		FetchTimeout:         getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		LinksOutput:          model.LinkOutputMode(getEnv("LINKS_OUTPUT", string(model.LinkOutputCount))),
		AllowPrivateTargets:  getEnvAsBool("ALLOW_PRIVATE_TARGETS", false),
		MockPagesEnabled:     getEnvAsBool("MOCK_PAGES_ENABLED", true),
		CORSAllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownGrace:        getEnvAsDuration("SHUTDOWN_GRACE", 10*time.Second),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.LinkCheckConcurrency < 1 || c.LinkCheckConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.LinkCheckConcurrency)
	}
	if c.LinkCheckPerHost < 1 || c.LinkCheckPerHost > 100 {
		return fmt.Errorf("%w: got %d", errPerHostOutOfRange, c.LinkCheckPerHost)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"LINK_CHECK_TIMEOUT", c.LinkCheckTimeout},
		{"LINK_CHECK_BUDGET", c.LinkCheckBudget},
		{"FETCH_TIMEOUT", c.FetchTimeout},
		{"SHUTDOWN_GRACE", c.ShutdownGrace},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s=%s", errNonPositiveDuration, d.name, d.value)
		}
	}

	if c.LinkCheckRate < 0 {
		return fmt.Errorf("%w: got %g", errNegativeRate, c.LinkCheckRate)
	}

	if _, err := model.ParseLinkOutputMode(string(c.LinksOutput), ""); err != nil {
		return fmt.Errorf("%w: %w", errInvalidLinksOutput, err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go duration strings such as "5s" or "1m30s".
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsList(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
