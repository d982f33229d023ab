package indexer

import (
	"encoding/json"
	"fmt"
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const statusPath = "/v1/status"

// StatusSource is implemented by Indexer.
type StatusSource interface {
	Status() Status
}

// NewStatusHandler serves the position of source as JSON at GET /v1/status.
func NewStatusHandler(source StatusSource, logger *zap.Logger) (http.Handler, error) {
	mux := gwruntime.NewServeMux()
	err := mux.HandlePath(http.MethodGet, statusPath, func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(source.Status()); err != nil {
			logger.Warn("write status response", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", statusPath, err)
	}
	return cors.Default().Handler(mux), nil
}
