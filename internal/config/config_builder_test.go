package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes validation; tests override single
// fields to probe individual checks.
func validConfig() *Config {
	return &Config{
		Identity: Identity{UserID: "user-1", DeviceID: "device-a"},
		Storage:  Storage{DB: DB{DSN: "sync.db"}},
		Remote:   Remote{BaseURL: "http://localhost:8080", RequestTimeout: 15 * time.Second},
		Queue: Queue{
			DrainInterval:  2 * time.Second,
			BackoffBase:    2 * time.Second,
			BackoffCeiling: 5 * time.Minute,
			MaxAttempts:    8,
		},
		Bandwidth: Bandwidth{
			FlushWindow:  750 * time.Millisecond,
			MaxBatchSize: 25,
		},
	}
}

// ── builder ───────────────────────────────────────────────────────────────────

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_EarlierSourcesWin verifies the merge precedence: a value set by an
// earlier source is not overwritten by a later one, and later sources fill
// the gaps.
func TestBuild_EarlierSourcesWin(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		validConfig(),
		&Config{
			Identity: Identity{UserID: "should-lose"},
			Sessions: Sessions{TokenSignKey: "filled-in"},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "user-1", cfg.Identity.UserID)
	assert.Equal(t, "filled-in", cfg.Sessions.TokenSignKey)
}

func TestBuild_DefaultsFillTunables(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&Config{
			Identity: Identity{UserID: "user-1", DeviceID: "device-a"},
			Storage:  Storage{DB: DB{DSN: "sync.db"}},
			Remote:   Remote{BaseURL: "http://localhost:8080"},
		},
	)
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Queue.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Queue.BackoffBase)
	assert.Equal(t, 5*time.Minute, cfg.Queue.BackoffCeiling)
	assert.Equal(t, 25, cfg.Bandwidth.MaxBatchSize)
	assert.Equal(t, 15*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTimeout)
}

// ── validation ────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config passes",
			mutate: func(*Config) {},
		},
		{
			name:    "missing user id",
			mutate:  func(cfg *Config) { cfg.Identity.UserID = "" },
			wantErr: ErrInvalidIdentityConfigs,
		},
		{
			name:    "missing device id",
			mutate:  func(cfg *Config) { cfg.Identity.DeviceID = "" },
			wantErr: ErrInvalidIdentityConfigs,
		},
		{
			name:    "missing dsn",
			mutate:  func(cfg *Config) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "missing remote url",
			mutate:  func(cfg *Config) { cfg.Remote.BaseURL = "" },
			wantErr: ErrInvalidRemoteConfigs,
		},
		{
			name:    "zero retry budget",
			mutate:  func(cfg *Config) { cfg.Queue.MaxAttempts = 0 },
			wantErr: ErrInvalidQueueConfigs,
		},
		{
			name: "backoff ceiling below base",
			mutate: func(cfg *Config) {
				cfg.Queue.BackoffCeiling = cfg.Queue.BackoffBase - time.Second
			},
			wantErr: ErrInvalidQueueConfigs,
		},
		{
			name:    "zero flush window",
			mutate:  func(cfg *Config) { cfg.Bandwidth.FlushWindow = 0 },
			wantErr: ErrInvalidBandwidthConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
