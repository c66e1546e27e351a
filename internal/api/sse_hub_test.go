package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoml/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSSEHubDeliversToSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewSSEHub(ctx)

	router := gin.New()
	router.GET("/events", hub.HandleSSE)
	srv := httptest.NewServer(router)
	defer srv.Close()

	reqCtx, stop := context.WithCancel(context.Background())
	defer stop()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL+"/events?session_id=s1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.clientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify(ports.Notification{SessionID: "other", EventType: "ignored", Message: "not for s1"})
	hub.Notify(ports.Notification{SessionID: "s1", EventType: "test_started", Kind: ports.NotifyInfo, Message: "Testing ML Model on Dataset..."})

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var event, data string
	timeout := time.After(2 * time.Second)
	for data == "" {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if strings.HasPrefix(line, "event:") {
				event = strings.TrimPrefix(line, "event:")
			}
			if strings.HasPrefix(line, "data:") {
				data = strings.TrimPrefix(line, "data:")
			}
		case <-timeout:
			t.Fatal("no event received")
		}
	}
	assert.Equal(t, "notification", event)
	assert.Contains(t, data, `"event_type":"test_started"`)
	assert.Contains(t, data, "Testing ML Model on Dataset...")
	assert.NotContains(t, data, "not for s1")

	stop()
	require.Eventually(t, func() bool { return hub.clientCount("s1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestSSEHubRequiresSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewSSEHub(ctx)

	router := gin.New()
	router.GET("/events", hub.HandleSSE)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSSEHubStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewSSEHub(ctx)
	cancel()

	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	hub.Notify(ports.Notification{SessionID: "s1"})
}

func TestSSEHubDropsUnwatchedSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewSSEHub(ctx)

	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Notify(ports.Notification{SessionID: "nobody", EventType: "retrain_started"})
	}
	assert.Zero(t, len(hub.broadcast))
}
