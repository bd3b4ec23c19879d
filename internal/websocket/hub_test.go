package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/security"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Hub, security.TokenIssuer, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := security.NewJWTIssuer("ws-secret", "shoptobd", time.Hour)
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, tokens, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, tokens, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHub_BroadcastsToAdmins(t *testing.T) {
	hub, tokens, url := newTestServer(t)
	tok, _, err := tokens.Issue("admin-1", model.RoleAdmin)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+tok, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	payload := `{"event_type":"payment.confirmed"}`
	require.NoError(t, hub.Publish(context.Background(), &model.OutboxMessage{Payload: []byte(payload)}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, got, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(got))
}

func TestServeWs_RejectsNonAdmins(t *testing.T) {
	_, tokens, url := newTestServer(t)
	tok, _, err := tokens.Issue("customer-1", model.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "no token", query: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", query: "?token=abc", wantStatus: http.StatusUnauthorized},
		{name: "customer token", query: "?token=" + tok, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(url+tt.query, nil)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHub_PublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- []byte("x")
	}
	assert.NoError(t, hub.Publish(context.Background(), &model.OutboxMessage{Payload: []byte("{}")}))
}
