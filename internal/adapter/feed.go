package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/models"
)

type WebsocketFeedConfig struct {
	URL              string
	ReconnectBase    time.Duration
	ReconnectCeiling time.Duration

	// OnStateChange, when set, is invoked with true after a successful
	// connect and false after a disconnect. The engine uses it as its
	// connectivity signal.
	OnStateChange func(online bool)
}

type websocketFeed struct {
	cfg    WebsocketFeedConfig
	logger *logger.Logger
}

// NewWebsocketFeed constructs a SubscriptionFeed reading remote change
// notifications from a websocket endpoint. The feed owns reconnection:
// consumers see a single uninterrupted channel.
func NewWebsocketFeed(cfg WebsocketFeedConfig, log *logger.Logger) SubscriptionFeed {
	if cfg.ReconnectBase <= 0 {
		cfg.ReconnectBase = time.Second
	}
	if cfg.ReconnectCeiling < cfg.ReconnectBase {
		cfg.ReconnectCeiling = 30 * time.Second
	}

	return &websocketFeed{cfg: cfg, logger: log}
}

func (f *websocketFeed) Subscribe(ctx context.Context) (<-chan models.RemoteChange, error) {
	changes := make(chan models.RemoteChange)

	go func() {
		defer close(changes)

		delay := f.cfg.ReconnectBase
		for {
			if ctx.Err() != nil {
				return
			}

			conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.cfg.URL, nil)
			if err != nil {
				f.logger.Warn().
					Str("func", "websocketFeed.Subscribe").
					Str("url", f.cfg.URL).
					Dur("retry_in", delay).
					Err(err).
					Msg("feed dial failed, retrying")
				f.notify(false)

				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
				delay = min(delay*2, f.cfg.ReconnectCeiling)
				continue
			}

			f.logger.Debug().
				Str("func", "websocketFeed.Subscribe").
				Str("url", f.cfg.URL).
				Msg("feed connected")
			f.notify(true)
			delay = f.cfg.ReconnectBase

			f.readLoop(ctx, conn, changes)
			conn.Close()
			f.notify(false)
		}
	}()

	return changes, nil
}

// readLoop pumps messages from conn into changes until the connection fails
// or ctx is cancelled. Malformed frames are logged and skipped rather than
// tearing the feed down.
func (f *websocketFeed) readLoop(ctx context.Context, conn *websocket.Conn, changes chan<- models.RemoteChange) {
	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				f.logger.Warn().
					Str("func", "websocketFeed.readLoop").
					Err(err).
					Msg("feed read failed, reconnecting")
			}
			return
		}

		var change models.RemoteChange
		if err = json.Unmarshal(msg, &change); err != nil {
			f.logger.Warn().
				Str("func", "websocketFeed.readLoop").
				Err(err).
				Msg("skipping malformed feed message")
			continue
		}

		select {
		case changes <- change:
		case <-ctx.Done():
			return
		}
	}
}

func (f *websocketFeed) notify(online bool) {
	if f.cfg.OnStateChange != nil {
		f.cfg.OnStateChange(online)
	}
}
