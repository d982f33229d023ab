package kafka

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Writer is satisfied by *kafkago.Writer.
	Writer interface {
		WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
		Close() error
	}
)
