package socket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const DefaultReconnectInterval = 5 * time.Second

var ErrNotConnected = errors.New("socket not connected")

type Config struct {
	URL               string
	ReconnectInterval time.Duration
	Header            http.Header
}

// Client is an event channel over a websocket. Frames are event.Envelope
// JSON objects. While disconnected it redials on a fixed interval and reports
// connect, disconnect and connect_error to local handlers.
type Client struct {
	url      string
	interval time.Duration
	header   http.Header
	dialer   *websocket.Dialer
	logger   apt.Logger
	dialed   func()

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	conn     *websocket.Conn
	handlers map[string]map[string]events.HandlerFunc

	writeMu sync.Mutex
}

func NewClient(cfg Config, logger apt.Logger) *Client {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = DefaultReconnectInterval
	}
	return &Client{
		url:      cfg.URL,
		interval: cfg.ReconnectInterval,
		header:   cfg.Header,
		dialer:   websocket.DefaultDialer,
		logger:   logger,
		ctx:      context.Background(),
		handlers: make(map[string]map[string]events.HandlerFunc),
	}
}

// Start begins connecting in the background. It returns immediately.
func (c *Client) Start(ctx context.Context) error {
	if c.url == "" {
		return fmt.Errorf("socket url not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.ctx = runCtx
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(runCtx, c.done)
	c.log().Info("socket client started", "url", c.url)
	return nil
}

// Stop cancels the run loop and closes the open connection. Cancelling under
// c.mu means a connection dialed concurrently is never attached.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done, conn := c.cancel, c.done, c.conn
	c.cancel = nil
	if cancel != nil {
		cancel()
	}
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = conn.Close()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connected reports whether a websocket connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// On registers handler for the named event and returns the function that removes it.
func (c *Client) On(name string, handler events.HandlerFunc) func() {
	id := uuid.NewString()

	c.mu.Lock()
	if c.handlers[name] == nil {
		c.handlers[name] = make(map[string]events.HandlerFunc)
	}
	c.handlers[name][id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[name], id)
		if len(c.handlers[name]) == 0 {
			delete(c.handlers, name)
		}
	}
}

// Emit sends payload as the named event on the open connection.
func (c *Client) Emit(ctx context.Context, name string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("emit %s: %w", name, ErrNotConnected)
	}

	msg, err := event.Encode(name, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{})
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
		if c.dialed != nil {
			c.dialed()
		}
		if ctx.Err() != nil {
			if conn != nil {
				conn.Close()
			}
			return
		}

		if err != nil {
			c.log().Debug("socket dial failed", "error", err)
			c.local(event.EventConnectError, []byte(fmt.Sprintf("%q", err.Error())))
		} else {
			if !c.attach(ctx, conn) {
				return
			}
			c.local(event.EventConnect, nil)
			c.read(ctx, conn)
			c.setConn(nil)
			conn.Close()
			if ctx.Err() != nil {
				return
			}
			c.local(event.EventDisconnect, nil)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.interval):
		}
	}
}

func (c *Client) read(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.log().Info("socket connection lost", "error", err)
			}
			return
		}

		env, err := event.Decode(data)
		if err != nil {
			c.log().Debug("dropping malformed frame", "error", err)
			continue
		}
		if event.IsConnectivity(env.Event) {
			continue
		}
		c.local(env.Event, env.Data)
	}
}

// attach publishes conn unless the loop was cancelled, in which case conn is
// closed and false is returned.
func (c *Client) attach(ctx context.Context, conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		conn.Close()
		return false
	}
	c.conn = conn
	return true
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) local(name string, data []byte) {
	c.mu.Lock()
	ctx := c.ctx
	handlers := make([]events.HandlerFunc, 0, len(c.handlers[name]))
	for _, h := range c.handlers[name] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, data); err != nil {
			c.log().Debug("handler failed", "event", name, "error", err)
		}
	}
}

func (c *Client) log() apt.Logger {
	return c.logger.With("component", "socket-client")
}
