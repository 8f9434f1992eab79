// Package twitch is the chat transport: an IRC-over-WebSocket connection
// that hands every chat line to a callback and reconnects forever.
package twitch

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const DefaultURL = "wss://irc-ws.chat.twitch.tv:443"

type Config struct {
	URL            string
	Username       string
	Token          string
	Channel        string
	ReconnectDelay time.Duration
}

type Client struct {
	cfg       Config
	dialer    *websocket.Dialer
	log       *zap.Logger
	connected atomic.Bool
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    log,
	}
}

// Connected reports whether a chat connection is currently up.
func (c *Client) Connected() bool { return c.connected.Load() }

// ConnectLines are the three lines sent right after the socket opens.
func ConnectLines(cfg Config) []string {
	token := cfg.Token
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	channel := strings.ToLower(strings.TrimPrefix(cfg.Channel, "#"))
	return []string{
		"PASS " + token,
		"NICK " + strings.ToLower(cfg.Username),
		"JOIN #" + channel,
	}
}

// SplitLines breaks one frame into its CRLF separated lines.
func SplitLines(frame string) []string {
	var out []string
	for _, l := range strings.Split(frame, "\r\n") {
		if l = strings.TrimRight(l, "\r\n"); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Run connects and feeds lines to handle until ctx is done. Connection
// failures are logged and retried after the reconnect delay.
func (c *Client) Run(ctx context.Context, handle func(line string)) error {
	b := backoff.NewConstantBackOff(c.cfg.ReconnectDelay)
	for {
		err := c.session(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		delay := b.NextBackOff()
		c.log.Warn("chat connection lost, reconnecting",
			zap.Error(err),
			zap.Duration("delay", delay),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

func (c *Client) session(ctx context.Context, handle func(string)) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for _, l := range ConnectLines(c.cfg) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(l+"\r\n")); err != nil {
			return fmt.Errorf("handshake: %w", err)
		}
	}

	c.connected.Store(true)
	defer c.connected.Store(false)
	c.log.Info("connected to chat",
		zap.String("channel", c.cfg.Channel),
		zap.String("username", c.cfg.Username),
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		for _, line := range SplitLines(string(data)) {
			if rest, ok := strings.CutPrefix(line, "PING"); ok {
				if err := conn.WriteMessage(websocket.TextMessage, []byte("PONG"+rest+"\r\n")); err != nil {
					return fmt.Errorf("pong: %w", err)
				}
				continue
			}
			handle(line)
		}
	}
}
