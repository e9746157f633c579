package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func parseFlagsWithArgs(t *testing.T, args ...string) *Config {
	t.Helper()

	// Reset the global flag set so each test registers flags from scratch.
	oldCommandLine := flag.CommandLine
	oldArgs := os.Args
	t.Cleanup(func() {
		flag.CommandLine = oldCommandLine
		os.Args = oldArgs
	})

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	os.Args = append([]string{"syncagent"}, args...)

	return ParseFlags()
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg := parseFlagsWithArgs(t,
		"-user-id", "user-1",
		"-device-id", "device-a",
		"-device-name", "Home desktop",
		"-platform", "linux",
		"-d", "sync.db",
		"-remote-url", "https://vault.example.com",
		"-feed-url", "wss://vault.example.com/feed",
		"-request-timeout", "30s",
		"-drain-interval", "2s",
		"-backoff-base", "2s",
		"-backoff-ceiling", "5m",
		"-max-attempts", "8",
		"-flush-window", "750ms",
		"-max-batch-size", "25",
		"-compress-threshold", "1024",
		"-session-idle-timeout", "30m",
		"-token-sign-key", "secret",
		"-token-duration", "12h",
		"-c", "engine.json",
	)

	assert.Equal(t, "user-1", cfg.Identity.UserID)
	assert.Equal(t, "device-a", cfg.Identity.DeviceID)
	assert.Equal(t, "sync.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "https://vault.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, "wss://vault.example.com/feed", cfg.Remote.FeedURL)
	assert.Equal(t, 30*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Queue.DrainInterval)
	assert.Equal(t, 5*time.Minute, cfg.Queue.BackoffCeiling)
	assert.Equal(t, 8, cfg.Queue.MaxAttempts)
	assert.Equal(t, 750*time.Millisecond, cfg.Bandwidth.FlushWindow)
	assert.Equal(t, 25, cfg.Bandwidth.MaxBatchSize)
	assert.Equal(t, 1024, cfg.Bandwidth.CompressThreshold)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTimeout)
	assert.Equal(t, "secret", cfg.Sessions.TokenSignKey)
	assert.Equal(t, 12*time.Hour, cfg.Sessions.TokenDuration)
	assert.Equal(t, "engine.json", cfg.JSONFilePath)
}

func TestParseFlags_NoFlags(t *testing.T) {
	cfg := parseFlagsWithArgs(t)

	assert.Equal(t, &Config{}, cfg)
}

func TestParseFlags_ConfigAlias(t *testing.T) {
	cfg := parseFlagsWithArgs(t, "-config", "engine.json")

	assert.Equal(t, "engine.json", cfg.JSONFilePath)
}
