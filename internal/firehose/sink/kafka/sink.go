// Package kafka publishes the events a deployment handles to a kafka topic, one message per
// event, keyed by deployment so that a single partition keeps them in stream order.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	kafkago "github.com/segmentio/kafka-go"
)

const kindHeader = "kind"

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

type Sink struct {
	writer     Writer
	metrics    Metrics
	chain      model.Chain
	deployment string
}

// NewWriter builds a synchronous writer that waits for all in-sync replicas.
func NewWriter(cfg Config) (*kafkago.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           batchTimeout,
	}, nil
}

func NewSink(writer Writer, chain model.Chain, deployment string, metrics Metrics) (*Sink, error) {
	if writer == nil {
		return nil, errors.New("kafka writer is required")
	}
	if chain == "" {
		return nil, errors.New("chain is required")
	}
	if deployment == "" {
		return nil, errors.New("deployment is required")
	}
	if metrics == nil {
		return nil, errors.New("kafka metrics is required")
	}
	return &Sink{writer: writer, metrics: metrics, chain: chain, deployment: deployment}, nil
}

func (s *Sink) Close() error {
	return s.writer.Close()
}

// Publish writes event and returns once the brokers acknowledged it.
func (s *Sink) Publish(ctx context.Context, event model.Event) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("publish_"+event.Kind.String(), err, start)
	}()

	msg, err := s.message(event)
	if err != nil {
		return err
	}
	if err = s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event for block %s: %w", event.Kind, event.Pointer(), err)
	}
	return nil
}

type eventMessage struct {
	Deployment string              `json:"deployment"`
	Chain      model.Chain         `json:"chain"`
	Kind       string              `json:"kind"`
	Block      model.BlockPointer  `json:"block"`
	Timestamp  int64               `json:"timestamp,omitempty"`
	Triggers   []triggerMessage    `json:"triggers,omitempty"`
	Reverted   *model.BlockPointer `json:"reverted,omitempty"`
	Cursor     string              `json:"cursor"`
}

type triggerMessage struct {
	Type       string          `json:"type"`
	BlockLevel bool            `json:"block_level"`
	Context    string          `json:"context"`
	Data       json.RawMessage `json:"data"`
}

// message encodes event. For a revert, Block is the parent the consumer rolls back to.
func (s *Sink) message(event model.Event) (kafkago.Message, error) {
	body := eventMessage{
		Deployment: s.deployment,
		Chain:      s.chain,
		Kind:       event.Kind.String(),
		Cursor:     event.Cursor,
	}

	switch event.Kind {
	case model.EventProcessBlock:
		body.Block = event.Block.Ptr()
		body.Timestamp = event.Block.Block.Timestamp().Unix()
		body.Triggers = make([]triggerMessage, 0, len(event.Block.Triggers))
		for _, trigger := range event.Block.Triggers {
			data, err := json.Marshal(trigger)
			if err != nil {
				return kafkago.Message{}, fmt.Errorf("encode trigger %s: %w", trigger.ErrorContext(), err)
			}
			body.Triggers = append(body.Triggers, triggerMessage{
				Type:       fmt.Sprintf("%T", trigger),
				BlockLevel: trigger.BlockLevel(),
				Context:    trigger.ErrorContext(),
				Data:       data,
			})
		}
	case model.EventRevert:
		reverted := event.Reverted
		body.Block = event.Parent
		body.Reverted = &reverted
	default:
		return kafkago.Message{}, fmt.Errorf("unknown event kind %d", event.Kind)
	}

	value, err := json.Marshal(body)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode %s event: %w", event.Kind, err)
	}
	return kafkago.Message{
		Key:     []byte(s.deployment),
		Value:   value,
		Headers: []kafkago.Header{{Key: kindHeader, Value: []byte(event.Kind.String())}},
	}, nil
}
