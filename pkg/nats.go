package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

// PublishEvent wraps payload in an event envelope and publishes it on <prefix>.<name>.
func (p *NATSPublisher) PublishEvent(ctx context.Context, prefix, name string, payload any) error {
	msg, err := event.Encode(name, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, Subject(prefix, name), msg)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// Subject returns the NATS subject that carries the named event.
func Subject(prefix, name string) string {
	if prefix == "" {
		prefix = event.EventsTopic
	}
	return prefix + "." + name
}

// NATSChannel is a named-event channel over core NATS. Each event travels on its
// own subject as an event.Envelope. Connectivity changes are delivered locally
// as connect, disconnect and connect_error events.
type NATSChannel struct {
	url    string
	prefix string
	wait   time.Duration

	mu       sync.Mutex
	ctx      context.Context
	conn     *nats.Conn
	handlers map[string]map[string]events.HandlerFunc
	subs     map[string]*nats.Subscription
}

type NATSChannelConfig struct {
	URL           string
	Prefix        string
	ReconnectWait time.Duration
}

func NewNATSChannel(cfg NATSChannelConfig) *NATSChannel {
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 5 * time.Second
	}
	if cfg.Prefix == "" {
		cfg.Prefix = event.EventsTopic
	}
	return &NATSChannel{
		url:      cfg.URL,
		prefix:   cfg.Prefix,
		wait:     cfg.ReconnectWait,
		ctx:      context.Background(),
		handlers: make(map[string]map[string]events.HandlerFunc),
		subs:     make(map[string]*nats.Subscription),
	}
}

func (c *NATSChannel) Start(ctx context.Context) error {
	conn, err := nats.Connect(c.url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(c.wait),
		nats.ConnectHandler(func(*nats.Conn) {
			c.local(event.EventConnect, nil)
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			c.local(event.EventConnect, nil)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				c.local(event.EventConnectError, []byte(fmt.Sprintf("%q", err.Error())))
			}
			c.local(event.EventDisconnect, nil)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	c.mu.Lock()
	c.ctx = ctx
	c.conn = conn
	pending := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		pending = append(pending, name)
	}
	c.mu.Unlock()

	for _, name := range pending {
		if err := c.ensureSubscription(name); err != nil {
			return err
		}
	}
	return nil
}

func (c *NATSChannel) Stop(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.subs = make(map[string]*nats.Subscription)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	return nil
}

// On registers handler for the named event and returns the function that removes it.
func (c *NATSChannel) On(name string, handler events.HandlerFunc) func() {
	id := uuid.NewString()

	c.mu.Lock()
	if c.handlers[name] == nil {
		c.handlers[name] = make(map[string]events.HandlerFunc)
	}
	c.handlers[name][id] = handler
	c.mu.Unlock()

	if !event.IsConnectivity(name) {
		_ = c.ensureSubscription(name)
	}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.handlers[name], id)
		if len(c.handlers[name]) > 0 {
			return
		}
		delete(c.handlers, name)
		if sub, ok := c.subs[name]; ok {
			_ = sub.Unsubscribe()
			delete(c.subs, name)
		}
	}
}

// Emit publishes payload as the named event.
func (c *NATSChannel) Emit(ctx context.Context, name string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("emit %s: NATS channel not started", name)
	}

	msg, err := event.Encode(name, payload)
	if err != nil {
		return err
	}
	return conn.Publish(Subject(c.prefix, name), msg)
}

func (c *NATSChannel) ensureSubscription(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	if _, ok := c.subs[name]; ok {
		return nil
	}

	sub, err := c.conn.Subscribe(Subject(c.prefix, name), func(msg *nats.Msg) {
		env, err := event.Decode(msg.Data)
		if err != nil {
			return
		}
		c.local(name, env.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", name, err)
	}
	c.subs[name] = sub
	return nil
}

func (c *NATSChannel) local(name string, data []byte) {
	c.mu.Lock()
	ctx := c.ctx
	handlers := make([]events.HandlerFunc, 0, len(c.handlers[name]))
	for _, h := range c.handlers[name] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		_ = h(ctx, data)
	}
}
