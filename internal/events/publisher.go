// Package events publishes aggregation progress to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/pipeline"
	"github.com/jonathan/profile2pdf/internal/types"
)

// ProgressEvent is the published form of one pipeline progress update.
type ProgressEvent struct {
	RequestID  string         `json:"requestId"`
	ProfileURL string         `json:"profileUrl"`
	State      pipeline.State `json:"state"`
	Message    string         `json:"message"`
	URL        string         `json:"url,omitempty"`
	Synthetic  *bool          `json:"synthetic,omitempty"` // Set on the done event
	Time       time.Time      `json:"time"`
}

// Publisher delivers progress events.
type Publisher interface {
	Publish(ctx context.Context, event ProgressEvent) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by request ID, so all
// events of one request land on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to topic. Writes are
// asynchronous; delivery failures are logged.
func NewKafkaPublisher(brokers []string, topic string, logger observability.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if logger == nil {
		logger = observability.NewNop()
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("failed to deliver progress events", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
	return &KafkaPublisher{writer: writer}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode progress event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.RequestID),
		Value: data,
		Time:  event.Time,
		Headers: []kafka.Header{
			{Key: "state", Value: []byte(event.State)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, ProgressEvent) error { return nil }
func (Nop) Close() error                                  { return nil }

// ProgressPublisher returns a progress callback forwarding every event of one
// request to pub. Publish failures are logged and never interrupt the request.
func ProgressPublisher(ctx context.Context, pub Publisher, requestID, profileURL string, logger observability.Logger) pipeline.ProgressCallback {
	if logger == nil {
		logger = observability.NewNop()
	}
	return func(e pipeline.ProgressEvent) {
		event := ProgressEvent{
			RequestID:  requestID,
			ProfileURL: profileURL,
			State:      e.State,
			Message:    e.Message,
			URL:        e.URL,
			Time:       time.Now().UTC(),
		}
		if e.State == pipeline.StateDone {
			if result, ok := e.Content.(*types.AggregatedFetchResult); ok {
				event.Synthetic = &result.Synthetic
			}
		}
		if err := pub.Publish(ctx, event); err != nil {
			logger.Warn("progress event not published", zap.String("request_id", requestID), zap.Error(err))
		}
	}
}
