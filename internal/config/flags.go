package config

import (
	"flag"
	"time"
)

// ParseFlags parses all engine configuration flags.
//
// Flags:
//
//	-user-id stable identifier of the authenticated user
//	-device-id per-install device identifier
//	-device-name user-visible device label
//	-platform device OS or form factor
//	-d local SQLite database path
//	-remote-url remote document store base URL
//	-feed-url websocket change feed URL
//	-request-timeout outbound request timeout (e.g., "15s")
//	-drain-interval queue drain loop interval (e.g., "2s")
//	-backoff-base first retry delay (e.g., "2s")
//	-backoff-ceiling maximum retry delay (e.g., "5m")
//	-max-attempts retry budget before dead-lettering
//	-flush-window bandwidth optimizer flush window (e.g., "750ms")
//	-max-batch-size bandwidth optimizer batch ceiling
//	-compress-threshold batch compression threshold in bytes
//	-session-idle-timeout session idle expiry (e.g., "30m")
//	-token-sign-key session token signing key
//	-token-duration session token validity (e.g., "12h")
//	-c/-config json file path with configs
func ParseFlags() *Config {
	var userID, deviceID, deviceName, platform string
	var databaseDSN string
	var remoteURL, feedURL string
	var requestTimeout time.Duration
	var drainInterval, backoffBase, backoffCeiling time.Duration
	var maxAttempts int
	var flushWindow time.Duration
	var maxBatchSize, compressThreshold int
	var sessionIdleTimeout, tokenDuration time.Duration
	var tokenSignKey string
	var jsonConfigPath string

	flag.StringVar(&userID, "user-id", "", "Authenticated user ID")
	flag.StringVar(&deviceID, "device-id", "", "Per-install device ID")
	flag.StringVar(&deviceName, "device-name", "", "User-visible device label")
	flag.StringVar(&platform, "platform", "", "Device OS or form factor")
	flag.StringVar(&databaseDSN, "d", "", "Local SQLite database path")
	flag.StringVar(&remoteURL, "remote-url", "", "Remote document store base URL")
	flag.StringVar(&feedURL, "feed-url", "", "Websocket change feed URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound request timeout (e.g., 15s)")
	flag.DurationVar(&drainInterval, "drain-interval", 0, "Queue drain loop interval (e.g., 2s)")
	flag.DurationVar(&backoffBase, "backoff-base", 0, "First retry delay (e.g., 2s)")
	flag.DurationVar(&backoffCeiling, "backoff-ceiling", 0, "Maximum retry delay (e.g., 5m)")
	flag.IntVar(&maxAttempts, "max-attempts", 0, "Retry budget before dead-lettering")
	flag.DurationVar(&flushWindow, "flush-window", 0, "Bandwidth flush window (e.g., 750ms)")
	flag.IntVar(&maxBatchSize, "max-batch-size", 0, "Bandwidth batch ceiling")
	flag.IntVar(&compressThreshold, "compress-threshold", 0, "Batch compression threshold in bytes")
	flag.DurationVar(&sessionIdleTimeout, "session-idle-timeout", 0, "Session idle expiry (e.g., 30m)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Session token signing key")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Session token validity (e.g., 12h)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &Config{
		Identity: Identity{
			UserID:     userID,
			DeviceID:   deviceID,
			DeviceName: deviceName,
			Platform:   platform,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Remote: Remote{
			BaseURL:        remoteURL,
			FeedURL:        feedURL,
			RequestTimeout: requestTimeout,
		},
		Queue: Queue{
			DrainInterval:  drainInterval,
			BackoffBase:    backoffBase,
			BackoffCeiling: backoffCeiling,
			MaxAttempts:    maxAttempts,
		},
		Bandwidth: Bandwidth{
			FlushWindow:       flushWindow,
			MaxBatchSize:      maxBatchSize,
			CompressThreshold: compressThreshold,
		},
		Sessions: Sessions{
			IdleTimeout:   sessionIdleTimeout,
			TokenSignKey:  tokenSignKey,
			TokenDuration: tokenDuration,
		},
		JSONFilePath: jsonConfigPath,
	}
}
