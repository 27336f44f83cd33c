package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gatewayStub struct {
	authenticated atomic.Bool
	statusCalls   atomic.Int32
	logoutCalls   atomic.Int32

	lastAuth    atomic.Value // string
	lastMessage atomic.Value // map[string]string
}

func (g *gatewayStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/status", func(w http.ResponseWriter, r *http.Request) {
		g.statusCalls.Add(1)
		g.lastAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]bool{"authenticated": g.authenticated.Load()})
	})
	mux.HandleFunc("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		g.lastMessage.Store(body)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/session/logout", func(w http.ResponseWriter, r *http.Request) {
		g.logoutCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestConnectAndSend(t *testing.T) {
	gw := &gatewayStub{}
	gw.authenticated.Store(true)
	srv := httptest.NewServer(gw.handler())
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", zap.NewNop())
	c.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.WaitReady(ctx))
	assert.Equal(t, "Bearer secret-token", gw.lastAuth.Load())

	require.NoError(t, c.SendGroup(context.Background(), "office-group", "hello"))
	msg, _ := gw.lastMessage.Load().(map[string]string)
	require.NotNil(t, msg)
	assert.Equal(t, "office-group", msg["target"])
	assert.Equal(t, "hello", msg["message"])

	c.Stop()
	assert.Equal(t, int32(1), gw.logoutCalls.Load())
}

func TestWaitReadyBlocksUntilAuthenticated(t *testing.T) {
	gw := &gatewayStub{}
	srv := httptest.NewServer(gw.handler())
	defer srv.Close()

	c := NewClient(srv.URL, "", zap.NewNop())
	c.Connect()
	defer c.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.WaitReady(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, gw.statusCalls.Load(), int32(1))
}

func TestSendGroupGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "target not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", zap.NewNop())
	err := c.SendGroup(context.Background(), "missing-group", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestStopWithoutConnectIsSafe(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", zap.NewNop())
	c.Stop()
	c.Stop()
}

func TestReconnectAfterStop(t *testing.T) {
	gw := &gatewayStub{}
	gw.authenticated.Store(true)
	srv := httptest.NewServer(gw.handler())
	defer srv.Close()

	c := NewClient(srv.URL, "", zap.NewNop())
	c.Connect()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.WaitReady(ctx))

	c.Stop()

	// A fresh Connect authenticates again on the new ready latch
	c.Connect()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	require.NoError(t, c.WaitReady(ctx2))
	c.Stop()
}
