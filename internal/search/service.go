package search

import (
	"context"
	"errors"
	"strings"

	"docqa-backend/internal/engine"
)

var (
	ErrEmptyQuery    = errors.New("query parameter 'q' is required")
	ErrMissingAPIKey = errors.New("generation provider api key not set")
)

// Service dispatches a query to the processing engine and returns its
// parsed, schema-validated payload verbatim. Retrieval results are not
// interpreted or reshaped here.
type Service struct {
	Engine    engine.Invoker
	APIKey    string
	IndexPath string
}

func NewService(eng engine.Invoker, apiKey, indexPath string) *Service {
	return &Service{Engine: eng, APIKey: apiKey, IndexPath: indexPath}
}

// Search validates the query, invokes the engine, and parses its stdout as
// a single structured payload.
func (s *Service) Search(ctx context.Context, queryText string) (*engine.QueryResult, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, ErrEmptyQuery
	}
	if s.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	res, err := s.Engine.Query(ctx, queryText, s.APIKey, s.IndexPath)
	if err != nil {
		return nil, err
	}

	return engine.ParseQueryResult(res.Stdout)
}
