package config

import (
	"flag"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T, args ...string) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// подавляем вывод парсера флагов в тестах
	flag.CommandLine.SetOutput(os.Stderr)
	oldArgs := os.Args
	os.Args = append([]string{oldArgs[0]}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URI", "AUTH_SECRET", "LOG_FORMAT", "CATALOG_PATH", "VALUATION_POLICY",
		"STRICT_CATALOG", "MAX_MUTATIONS", "DEFAULT_ACCOUNTS", "PROFILE_CACHE_SIZE",
		"PROFILE_CACHE_TTL", "BASE_URL", "ENABLE_HTTPS", "TOKEN_FILE",
	} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8081" {
		t.Fatalf("ServerURL default expected 'http://localhost:8081', got %q", cfg.ServerURL)
	}
	assert.Equal(t, 5, cfg.MaxMutations)
	assert.Equal(t, 256, cfg.ProfileCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, []string{"Account 1", "Account 2", "Account 3", "Account 4"}, cfg.DefaultAccounts)
	assert.False(t, cfg.StrictCatalog)
	assert.NotEmpty(t, cfg.TokenFile)
}

func TestNewConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("DEFAULT_ACCOUNTS", "Main, Alt ,,")
	t.Setenv("STRICT_CATALOG", "true")
	t.Setenv("MAX_MUTATIONS", "0")
	t.Setenv("PROFILE_CACHE_TTL", "30s")
	t.Setenv("VALUATION_POLICY", "additive-full")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	assert.Equal(t, "top", cfg.AuthSecret)
	assert.Equal(t, []string{"Main", "Alt"}, cfg.DefaultAccounts)
	assert.True(t, cfg.StrictCatalog)
	assert.Equal(t, 0, cfg.MaxMutations)
	assert.Equal(t, 30*time.Second, cfg.ProfileCacheTTL)
	assert.Equal(t, "additive-full", cfg.ValuationPolicy)
}

func TestNewConfig_FlagsWhenEnvMissing(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t, "-d", "postgres://localhost/db", "-policy", "multiplicative-chain", "-default-accounts", "One,Two", "items")
	cfg := NewConfig()

	assert.Equal(t, "postgres://localhost/db", cfg.DatabaseDSN)
	assert.Equal(t, "multiplicative-chain", cfg.ValuationPolicy)
	assert.Equal(t, []string{"One", "Two"}, cfg.DefaultAccounts)
	assert.Equal(t, []string{"items"}, flag.Args())
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	clearEnv(t)
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8081
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("ENABLE_HTTPS", "false")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8081") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
}
