package twitch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectLines(t *testing.T) {
	got := ConnectLines(Config{Username: "PugBot", Token: "abc", Channel: "#Pugs"})
	assert.Equal(t, []string{"PASS oauth:abc", "NICK pugbot", "JOIN #pugs"}, got)

	got = ConnectLines(Config{Username: "pugbot", Token: "oauth:abc", Channel: "pugs"})
	assert.Equal(t, "PASS oauth:abc", got[0])
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"single"}, SplitLines("single"))
	assert.Empty(t, SplitLines("\r\n"))
}

// fakeChat accepts connections, records what the client sends and pushes a
// PING plus one PRIVMSG. The first connection is dropped after the PONG.
type fakeChat struct {
	conns    atomic.Int32
	received chan string
}

func (f *fakeChat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	n := f.conns.Add(1)

	read := func() bool {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return false
		}
		f.received <- strings.TrimRight(string(data), "\r\n")
		return true
	}
	for range 3 {
		if !read() {
			return
		}
	}
	frame := "PING :tmi.twitch.tv\r\n:alice!alice@alice.tmi.twitch.tv PRIVMSG #pugs :tank\r\n"
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return
	}
	if !read() || n == 1 {
		return
	}
	for read() {
	}
}

func TestClient_RunHandshakePingAndReconnect(t *testing.T) {
	chat := &fakeChat{received: make(chan string, 32)}
	srv := httptest.NewServer(chat)
	defer srv.Close()

	c := New(Config{
		URL:            "ws" + strings.TrimPrefix(srv.URL, "http"),
		Username:       "pugbot",
		Token:          "secret",
		Channel:        "pugs",
		ReconnectDelay: 10 * time.Millisecond,
	}, zap.NewNop())

	lines := make(chan string, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, func(l string) { lines <- l }) }()

	next := func() string {
		select {
		case s := <-chat.received:
			return s
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for client")
			return ""
		}
	}

	for round := 1; round <= 2; round++ {
		assert.Equal(t, "PASS oauth:secret", next())
		assert.Equal(t, "NICK pugbot", next())
		assert.Equal(t, "JOIN #pugs", next())
		assert.Equal(t, "PONG :tmi.twitch.tv", next())

		select {
		case l := <-lines:
			assert.Equal(t, ":alice!alice@alice.tmi.twitch.tv PRIVMSG #pugs :tank", l)
		case <-time.After(2 * time.Second):
			t.Fatal("chat line not delivered")
		}
	}

	assert.Eventually(t, c.Connected, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 2, chat.conns.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, c.Connected())
}

func TestClient_RunRetriesFailedDials(t *testing.T) {
	c := New(Config{URL: "ws://127.0.0.1:1", ReconnectDelay: 5 * time.Millisecond}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Run(ctx, func(string) { t.Fatal("no lines expected") }))
	assert.False(t, c.Connected())
}
