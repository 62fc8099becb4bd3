// Package publisher ships audit events to Kafka. Kafka is the durable
// audit trail; the in-process store remains the sink when no brokers are
// configured.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"ascent/pkg/platform/audit"
)

// payload is the JSON structure published to the audit topic.
type payload struct {
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Action    string `json:"action"`
	Phase     int    `json:"phase,omitempty"`
	Gleams    int64  `json:"gleams,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Kafka publishes audit events keyed by user ID, so one user's currency
// history stays ordered within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects to the brokers and ensures the audit topic exists.
func NewKafka(ctx context.Context, brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, 3, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create audit topic %s: %w", res.Topic, res.Err)
		}
	}

	return &Kafka{client: client, topic: topic}, nil
}

// Emit publishes one event synchronously. Callers that must not block run
// this behind the channel publisher and worker.
func (k *Kafka) Emit(ctx context.Context, event audit.Event) error {
	if event.Category == "" {
		event.Category = audit.CategoryOf(event.Action)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	p := payload{
		Category:  string(event.Category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Action:    event.Action,
		Phase:     int(event.Phase),
		Gleams:    event.Gleams,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	}
	if !event.UserID.IsNil() {
		p.UserID = event.UserID.String()
	}
	if !event.SessionID.IsNil() {
		p.SessionID = event.SessionID.String()
	}

	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(p.UserID),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Append lets the publisher double as an audit.Store so the worker can
// drain the inbox straight to the topic.
func (k *Kafka) Append(ctx context.Context, event audit.Event) error {
	return k.Emit(ctx, event)
}

// Close flushes and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}

var (
	_ audit.Publisher = (*Kafka)(nil)
	_ audit.Store     = (*Kafka)(nil)
)
