package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hireflow_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		if uid := c.Query("uid"); uid != "" {
			c.Set(contextkeys.UserIDKey, uid)
		}
		c.Next()
	}
	NewHandler(hub, nil).RegisterRoutes(&r.RouterGroup, fakeAuth)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, uid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?uid=" + uid
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PushToUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)
	srv := startServer(t, hub)

	assert.False(t, hub.PushToUser("u1", []byte("x")))

	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.IsConnected("u1") }, time.Second, 10*time.Millisecond)

	assert.True(t, hub.PushToUser("u1", []byte(`{"title":"hi"}`)))
	assert.False(t, hub.PushToUser("u2", []byte("x")))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"hi"}`, string(msg))
}

func TestHub_MultipleTabsAndDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)
	srv := startServer(t, hub)

	first := dial(t, srv, "u1")
	second := dial(t, srv, "u1")
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients["u1"]) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ConnectedUsers())

	require.True(t, hub.PushToUser("u1", []byte("ping")))
	for _, c := range []*websocket.Conn{first, second} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "ping", string(msg))
	}

	first.Close()
	second.Close()
	require.Eventually(t, func() bool { return !hub.IsConnected("u1") }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ConnectedUsers())
}

func TestHandler_RejectsAnonymous(t *testing.T) {
	hub := NewHub()
	srv := startServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
