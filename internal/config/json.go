package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONConfig mirrors [Config] with Duration wrappers so durations can be
// written as strings ("2s", "5m") in the JSON file.
type JSONConfig struct {
	Identity struct {
		UserID     string `json:"user_id"`
		DeviceID   string `json:"device_id"`
		DeviceName string `json:"device_name"`
		Platform   string `json:"platform"`
	} `json:"identity,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Remote struct {
		BaseURL        string   `json:"base_url"`
		FeedURL        string   `json:"feed_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	Queue struct {
		DrainInterval  Duration `json:"drain_interval"`
		BackoffBase    Duration `json:"backoff_base"`
		BackoffCeiling Duration `json:"backoff_ceiling"`
		MaxAttempts    int      `json:"max_attempts"`
	} `json:"queue,omitempty"`

	Bandwidth struct {
		FlushWindow       Duration `json:"flush_window"`
		MaxBatchSize      int      `json:"max_batch_size"`
		CompressThreshold int      `json:"compress_threshold"`
	} `json:"bandwidth,omitempty"`

	Sessions struct {
		IdleTimeout   Duration `json:"idle_timeout"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"sessions,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg JSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &Config{
		Identity: Identity{
			UserID:     jsonCfg.Identity.UserID,
			DeviceID:   jsonCfg.Identity.DeviceID,
			DeviceName: jsonCfg.Identity.DeviceName,
			Platform:   jsonCfg.Identity.Platform,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Remote: Remote{
			BaseURL:        jsonCfg.Remote.BaseURL,
			FeedURL:        jsonCfg.Remote.FeedURL,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		Queue: Queue{
			DrainInterval:  time.Duration(jsonCfg.Queue.DrainInterval),
			BackoffBase:    time.Duration(jsonCfg.Queue.BackoffBase),
			BackoffCeiling: time.Duration(jsonCfg.Queue.BackoffCeiling),
			MaxAttempts:    jsonCfg.Queue.MaxAttempts,
		},
		Bandwidth: Bandwidth{
			FlushWindow:       time.Duration(jsonCfg.Bandwidth.FlushWindow),
			MaxBatchSize:      jsonCfg.Bandwidth.MaxBatchSize,
			CompressThreshold: jsonCfg.Bandwidth.CompressThreshold,
		},
		Sessions: Sessions{
			IdleTimeout:   time.Duration(jsonCfg.Sessions.IdleTimeout),
			TokenSignKey:  jsonCfg.Sessions.TokenSignKey,
			TokenDuration: time.Duration(jsonCfg.Sessions.TokenDuration),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
