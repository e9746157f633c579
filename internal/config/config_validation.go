package config

// validate checks that the final merged [Config] satisfies all engine
// invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the sentinel errors
// from errors.go otherwise.
func (cfg *Config) validate() error {
	if cfg.Identity.UserID == "" || cfg.Identity.DeviceID == "" {
		return ErrInvalidIdentityConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Remote.BaseURL == "" || cfg.Remote.RequestTimeout <= 0 {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Queue.MaxAttempts <= 0 || cfg.Queue.BackoffBase <= 0 ||
		cfg.Queue.BackoffCeiling < cfg.Queue.BackoffBase {
		return ErrInvalidQueueConfigs
	}

	if cfg.Bandwidth.FlushWindow <= 0 || cfg.Bandwidth.MaxBatchSize <= 0 {
		return ErrInvalidBandwidthConfigs
	}

	return nil
}
