package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client holds the singleton authenticated session against the
// group-chat gateway. One long-lived session serves every send; callers
// block on WaitReady until authentication completes or their context
// ends.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger

	mu      sync.Mutex
	ready   chan struct{}
	isReady bool
	cancel  context.CancelFunc
	stopped bool
}

func NewClient(baseURL, token string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
		ready:   make(chan struct{}),
	}
}

// Connect starts the background authentication. Calling it after Stop
// starts a fresh session; calling it while connecting is a no-op.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	c.stopped = false
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.establish(ctx)
}

// establish checks the gateway session until it reports authenticated,
// backing off between attempts. The retry timer is cancellable through
// the connect context, so Stop never leaves a pending recheck behind.
func (c *Client) establish(ctx context.Context) {
	backoff := 2 * time.Second
	const maxBackoff = time.Minute

	for {
		ok, err := c.sessionAuthenticated(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			c.log.Warn("chat gateway status check failed", zap.Error(err))
		}
		if ok {
			c.mu.Lock()
			if !c.isReady {
				c.isReady = true
				close(c.ready)
			}
			c.mu.Unlock()
			c.log.Info("chat session authenticated")
			return
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// WaitReady blocks until the session is authenticated or ctx ends
func (c *Client) WaitReady(ctx context.Context) error {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("chat session not ready: %w", ctx.Err())
	}
}

// SendGroup posts a message to a group target
func (c *Client) SendGroup(ctx context.Context, target, text string) error {
	payload, err := json.Marshal(map[string]string{
		"target":  target,
		"message": text,
	})
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send chat message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("chat gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Stop cancels any pending reconnect attempt and releases the session.
// Messages already sent stay sent.
func (c *Client) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	wasReady := c.isReady
	c.isReady = false
	c.ready = make(chan struct{})
	c.mu.Unlock()

	if wasReady {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.logout(ctx); err != nil {
			c.log.Warn("chat session logout failed", zap.Error(err))
		}
	}
	c.log.Info("chat session stopped")
}

func (c *Client) sessionAuthenticated(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/session/status", nil)
	if err != nil {
		return false, fmt.Errorf("build status request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("query session status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("session status returned %d", resp.StatusCode)
	}

	var status struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("decode session status: %w", err)
	}
	return status.Authenticated, nil
}

func (c *Client) logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/session/logout", nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
