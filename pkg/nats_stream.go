package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSStream retains the event channel in JetStream so a restarted desk can
// replay what it missed while disconnected.
type NATSStream struct {
	conn     *nats.Conn
	consumer jetstream.Consumer
	ack      bool
	wait     time.Duration
}

type NATSStreamConfig struct {
	URL          string
	StreamName   string        // e.g. "BAKERY_EVENTS"
	Prefix       string        // subject prefix; the stream captures <prefix>.>
	ConsumerName string        // durable consumer, one per desk instance; empty reads without acking
	MaxAge       time.Duration // retention
	MaxMsgs      int64         // 0 = unlimited
	FetchWait    time.Duration
}

// Durable reports whether reads advance a named consumer. Without a consumer
// name the stream is read through an ordered consumer that never acknowledges,
// so every read starts from the first retained message.
func (c NATSStreamConfig) Durable() bool {
	return c.ConsumerName != ""
}

func NewNATSStream(ctx context.Context, cfg NATSStreamConfig) (*NATSStream, error) {
	if cfg.FetchWait <= 0 {
		cfg.FetchWait = 5 * time.Second
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	subjects := Subject(cfg.Prefix, ">")
	streamConfig := jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{subjects},
		MaxAge:   cfg.MaxAge,
	}
	if cfg.MaxMsgs > 0 {
		streamConfig.MaxMsgs = cfg.MaxMsgs
	}

	stream, err := js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}

	var consumer jetstream.Consumer
	if cfg.Durable() {
		consumer, err = stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
			Name:          cfg.ConsumerName,
			Durable:       cfg.ConsumerName,
			AckPolicy:     jetstream.AckExplicitPolicy,
			DeliverPolicy: jetstream.DeliverAllPolicy,
			FilterSubject: subjects,
		})
	} else {
		consumer, err = stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
			FilterSubjects: []string{subjects},
			DeliverPolicy:  jetstream.DeliverAllPolicy,
		})
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update consumer %s: %w", cfg.ConsumerName, err)
	}

	return &NATSStream{conn: conn, consumer: consumer, ack: cfg.Durable(), wait: cfg.FetchWait}, nil
}

// Fetch returns up to limit retained envelopes. A durable stream acknowledges
// them, so the next Fetch continues after the last one returned.
func (s *NATSStream) Fetch(ctx context.Context, limit int) ([]events.StreamMessage, error) {
	if limit <= 0 {
		limit = 1000
	}

	batch, err := s.consumer.Fetch(limit, jetstream.FetchMaxWait(s.wait))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []events.StreamMessage
	for msg := range batch.Messages() {
		metadata, err := msg.Metadata()
		if err == nil {
			messages = append(messages, events.StreamMessage{
				Data:      msg.Data(),
				Sequence:  metadata.Sequence.Stream,
				Timestamp: metadata.Timestamp.UnixNano(),
			})
		}
		if s.ack {
			_ = msg.Ack()
		}
	}
	if err := batch.Error(); err != nil && len(messages) == 0 {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}

	return messages, nil
}

func (s *NATSStream) Close() error {
	s.conn.Close()
	return nil
}
