package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Delivery knobs for the durable job consumer. Analyses are retried twice
// after the first failed delivery, then parked.
const (
	natsAckWait       = 30 * time.Second
	natsMaxDeliver    = 3
	natsMaxAckPending = 100
)

// NATSQueue is the JetStream-backed queue. Each subscribed subject gets its
// own file-backed stream and durable consumer, so jobs survive restarts of
// both the server and the worker.
type NATSQueue struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	mu            sync.RWMutex
	subscriptions map[string]*nats.Subscription
}

func newNATSQueue(url string) (*NATSQueue, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

// newNATSQueueWithConn wraps an existing connection; tests pass one from an
// embedded server.
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends a message through JetStream. The publish is synchronous so
// the caller learns immediately whether the job was accepted by the stream.
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}

	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe attaches a durable consumer to the subject's stream. Handler
// errors NAK the message so JetStream redelivers it.
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	if err := q.ensureStream(subject); err != nil {
		return err
	}

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("consumer-"+sanitizeConsumerName(subject)),
		nats.ManualAck(),
		nats.MaxAckPending(natsMaxAckPending),
		nats.AckWait(natsAckWait),
		nats.MaxDeliver(natsMaxDeliver),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe detaches the subject's consumer. Messages already in the
// stream stay there and replay on the next Subscribe.
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", subject, err)
	}

	delete(q.subscriptions, subject)
	return nil
}

// Close drops all consumers and the connection.
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		_ = sub.Unsubscribe()
		delete(q.subscriptions, subject)
	}

	q.conn.Close()
	return nil
}

// ensureStream creates the subject's file-backed stream if it does not
// exist yet. Both publisher and subscriber call it, so whichever side comes
// up first wins.
func (q *NATSQueue) ensureStream(subject string) error {
	name := "trendscope-" + sanitizeConsumerName(subject)

	if _, err := q.js.StreamInfo(name); err == nil {
		return nil
	}

	_, err := q.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream for %s: %w", subject, err)
	}
	return nil
}

// sanitizeConsumerName maps a subject to a legal stream/consumer name:
// anything outside [A-Za-z0-9_-] becomes an underscore.
func sanitizeConsumerName(subject string) string {
	out := make([]byte, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
