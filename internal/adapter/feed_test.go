package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/models"
)

// feedServer accepts one websocket connection and plays back frames.
func feedServer(t *testing.T, frames []string) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Keep the connection open so the feed does not reconnect mid-test.
		time.Sleep(10 * time.Second)
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketFeed_DeliversChanges(t *testing.T) {
	url := feedServer(t, []string{
		`{"entity_type":"account","entity_id":"acc-1","kind":"update","version":3,"origin_device_id":"device-b"}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewWebsocketFeed(WebsocketFeedConfig{URL: url}, logger.Nop())
	changes, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	select {
	case change := <-changes:
		assert.Equal(t, models.EntityAccount, change.EntityType)
		assert.Equal(t, "acc-1", change.EntityID)
		assert.Equal(t, int64(3), change.Version)
		assert.Equal(t, "device-b", change.OriginDeviceID)
	case <-time.After(5 * time.Second):
		t.Fatal("change never arrived")
	}
}

func TestWebsocketFeed_SkipsMalformedFrames(t *testing.T) {
	url := feedServer(t, []string{
		`{not json`,
		`{"entity_type":"tag","entity_id":"tag-1","kind":"delete"}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewWebsocketFeed(WebsocketFeedConfig{URL: url}, logger.Nop())
	changes, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	// The garbage frame is dropped; the next valid one still comes through.
	select {
	case change := <-changes:
		assert.Equal(t, "tag-1", change.EntityID)
		assert.Equal(t, models.EventDelete, change.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("change never arrived")
	}
}

func TestWebsocketFeed_ReportsConnectivity(t *testing.T) {
	url := feedServer(t, nil)

	states := make(chan bool, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewWebsocketFeed(WebsocketFeedConfig{
		URL:           url,
		OnStateChange: func(online bool) { states <- online },
	}, logger.Nop())

	_, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	select {
	case online := <-states:
		assert.True(t, online)
	case <-time.After(5 * time.Second):
		t.Fatal("connect notification never arrived")
	}
}

func TestWebsocketFeed_ClosesOnCancel(t *testing.T) {
	url := feedServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	feed := NewWebsocketFeed(WebsocketFeedConfig{URL: url}, logger.Nop())
	changes, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-changes:
		assert.False(t, open, "channel must close after cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("channel never closed")
	}
}
