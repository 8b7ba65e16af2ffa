package socket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/gorilla/websocket"
)

type testServer struct {
	*httptest.Server
	received chan event.Envelope
	conns    chan *websocket.Conn
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		received: make(chan event.Envelope, 10),
		conns:    make(chan *websocket.Conn, 10),
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.conns <- conn
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := event.Decode(data)
			if err == nil {
				ts.received <- env
			}
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
	var zero T
	return zero
}

func TestClientRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(Config{URL: ts.wsURL(), ReconnectInterval: 10 * time.Millisecond}, nil)

	connected := make(chan struct{}, 4)
	created := make(chan []byte, 4)
	client.On(event.EventConnect, func(ctx context.Context, data []byte) error {
		connected <- struct{}{}
		return nil
	})
	client.On(event.EventOrderCreated, func(ctx context.Context, data []byte) error {
		created <- data
		return nil
	})

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer client.Stop(context.Background())

	waitFor(t, connected, "connect")
	serverConn := waitFor(t, ts.conns, "server connection")

	if err := client.Emit(context.Background(), event.EventJoinRoom, event.JoinRoom{UserID: "u1", Role: "admin"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	env := waitFor(t, ts.received, "joinRoom frame")
	if env.Event != event.EventJoinRoom || !strings.Contains(string(env.Data), `"u1"`) {
		t.Fatalf("unexpected frame %+v", env)
	}

	frame, _ := event.Encode(event.EventOrderCreated, map[string]any{"orderId": "o1"})
	if err := serverConn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("server write: %v", err)
	}
	data := waitFor(t, created, "orderCreated")
	if !strings.Contains(string(data), `"o1"`) {
		t.Fatalf("unexpected payload %s", data)
	}
}

func TestClientReconnects(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(Config{URL: ts.wsURL(), ReconnectInterval: 10 * time.Millisecond}, nil)

	connected := make(chan struct{}, 4)
	disconnected := make(chan struct{}, 4)
	client.On(event.EventConnect, func(ctx context.Context, data []byte) error {
		connected <- struct{}{}
		return nil
	})
	client.On(event.EventDisconnect, func(ctx context.Context, data []byte) error {
		disconnected <- struct{}{}
		return nil
	})

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer client.Stop(context.Background())

	waitFor(t, connected, "first connect")
	first := waitFor(t, ts.conns, "server connection")
	first.Close()

	waitFor(t, disconnected, "disconnect")
	waitFor(t, connected, "reconnect")
	if !client.Connected() {
		t.Fatal("expected client to be connected")
	}
}

func TestClientConnectError(t *testing.T) {
	client := NewClient(Config{URL: "ws://127.0.0.1:1/ws", ReconnectInterval: 10 * time.Millisecond}, nil)

	failures := make(chan []byte, 4)
	client.On(event.EventConnectError, func(ctx context.Context, data []byte) error {
		failures <- data
		return nil
	})

	if err := client.Emit(context.Background(), event.EventJoinRoom, nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	data := waitFor(t, failures, "connect_error")
	if len(data) == 0 || data[0] != '"' {
		t.Fatalf("expected quoted message, got %s", data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestClientOffRemovesHandler(t *testing.T) {
	client := NewClient(Config{URL: "ws://example"}, nil)
	calls := 0
	off := client.On("x", func(ctx context.Context, data []byte) error {
		calls++
		return nil
	})
	client.local("x", nil)
	off()
	client.local("x", nil)

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if len(client.handlers) != 0 {
		t.Fatalf("expected no handlers left, got %d", len(client.handlers))
	}
}

func TestClientStartRequiresURL(t *testing.T) {
	if err := NewClient(Config{}, nil).Start(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestClientStopBetweenDialAndAttach(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(Config{URL: ts.wsURL(), ReconnectInterval: 10 * time.Millisecond}, nil)

	connected := make(chan struct{}, 1)
	client.On(event.EventConnect, func(ctx context.Context, data []byte) error {
		connected <- struct{}{}
		return nil
	})

	stopped := make(chan error, 1)
	client.dialed = func() {
		client.mu.Lock()
		runCtx := client.ctx
		client.mu.Unlock()

		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		go func() {
			defer cancel()
			stopped <- client.Stop(stopCtx)
		}()

		deadline := time.Now().Add(2 * time.Second)
		for runCtx.Err() == nil && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	}

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := waitFor(t, stopped, "stop"); err != nil {
		t.Fatalf("Stop() error = %v, want nil", err)
	}
	if client.Connected() {
		t.Error("connection attached after stop")
	}
	select {
	case <-connected:
		t.Error("connect emitted after stop")
	default:
	}
}
