package service

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invest_bot/internal/strategy"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubBroadcastsEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.Observe(strategy.Event{Type: strategy.EventIndicator, FIGI: "F1", Indicator: 42})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got strategy.Event
	require.NoError(t, sonic.Unmarshal(msg, &got))
	require.Equal(t, strategy.EventIndicator, got.Type)
	require.Equal(t, "F1", got.FIGI)
	require.Equal(t, 42.0, got.Indicator)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestObserveDoesNotBlockWithoutRun(t *testing.T) {
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() {
		for range broadcastBuffer * 2 {
			hub.Observe(strategy.Event{Type: strategy.EventPhase})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Observe blocked")
	}
}
