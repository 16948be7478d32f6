// Package queue provides the pluggable job transport between the API and
// the analysis workers. Four backends share one contract: NATS JetStream
// (the default), Redis Streams, Kafka, and an in-memory channel queue for
// tests and single-process runs.
package queue

import "context"

// MessageHandler processes one delivered message. Returning an error leaves
// the message unacknowledged so backends that support it redeliver.
type MessageHandler func(data []byte) error

// Publisher is the producing half of a queue. The API service only needs
// this side.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// Subscriber is the consuming half of a queue. Workers only need this side.
type Subscriber interface {
	Subscribe(subject string, handler MessageHandler) error
	Unsubscribe(subject string) error
	Close() error
}

// Queue is a backend that can do both.
type Queue interface {
	Publisher
	Subscriber
}
