package messaging

import (
	"context"
)

// Broker is the interface the engine publishes events through.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the wire envelope for published events.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
