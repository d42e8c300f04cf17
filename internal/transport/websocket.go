package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"
)

// WebSocketTransport carries raw control-mode protocol bytes as binary
// websocket messages, for multiplexers exposed over a browser-facing
// bridge rather than a local process (SPEC_FULL.md §11). Grounded on
// internal/ws/client.go's Dial/Read loop and internal/direct/server.go's
// bearer-JWT handoff pattern.
type WebSocketTransport struct {
	log   *slog.Logger
	conn  *websocket.Conn
	mu    sync.Mutex
	token string

	OnLine   func(line []byte)
	OnClosed func(err error)
}

// DialWebSocket connects to url, presenting token as a bearer credential
// the way internal/ws/client.go's connectAndServe does, then begins
// streaming binary frames to OnLine.
func DialWebSocket(ctx context.Context, url, token string, log *slog.Logger) (*WebSocketTransport, error) {
	if exp, err := tokenExpiry(token); err == nil && time.Until(exp) < time.Minute {
		log.Warn("bearer token close to expiry", "expires_at", exp)
	}

	opts := &websocket.DialOptions{HTTPHeader: make(http.Header)}
	opts.HTTPHeader.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.Dial(ctx, url, opts)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}
	conn.SetReadLimit(1024 * 1024)

	t := &WebSocketTransport{log: log, conn: conn, token: token}
	go t.readLoop(ctx)
	return t, nil
}

func (t *WebSocketTransport) readLoop(ctx context.Context) {
	for {
		kind, data, err := t.conn.Read(ctx)
		if err != nil {
			if t.OnClosed != nil {
				t.OnClosed(fmt.Errorf("transport: read: %w", err))
			}
			return
		}
		if kind != websocket.MessageBinary {
			continue
		}
		if t.OnLine != nil {
			t.OnLine(data)
		}
	}
}

// Write sends data as one binary websocket message.
func (t *WebSocketTransport) Write(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := t.conn.Write(ctx, websocket.MessageBinary, data); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Flush is a no-op: each Write is already one complete websocket frame.
func (t *WebSocketTransport) Flush() error { return nil }

// Close closes the underlying connection with a normal closure code.
func (t *WebSocketTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "client closing")
}

// tokenExpiry reads the "exp" claim out of token without verifying its
// signature — we are the holder, not the verifier, of this bearer token;
// the server still enforces validity, and no trust decision is made
// client-side.
func tokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}
