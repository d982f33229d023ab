package feed

import (
	"crypto/tls"
	"errors"
	"fmt"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	pbfirehose "github.com/streamingfast/pbgo/sf/firehose/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const maxRecvMsgSize = 1 << 30

// DialConfig describes how to reach a firehose endpoint.
type DialConfig struct {
	Endpoint  string
	Plaintext bool
	// InsecureSkipVerify keeps TLS but skips certificate checks.
	InsecureSkipVerify bool
}

// Dial opens a gRPC connection with logging and metrics interceptors and returns the
// generated stream client bound to it.
func Dial(cfg DialConfig, logger *zap.Logger) (*grpc.ClientConn, pbfirehose.StreamClient, error) {
	if cfg.Endpoint == "" {
		return nil, nil, errors.New("firehose endpoint is required")
	}

	creds := insecure.NewCredentials()
	if !cfg.Plaintext {
		creds = credentials.NewTLS(&tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
		})
	}

	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxRecvMsgSize)),
		grpc.WithStreamInterceptor(grpcMiddleware.ChainStreamClient(
			grpcPrometheus.StreamClientInterceptor,
			grpcZap.StreamClientInterceptor(logger.Named("grpc")),
		)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("dial firehose %s: %w", cfg.Endpoint, err)
	}

	return conn, pbfirehose.NewStreamClient(conn), nil
}
