package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/clinify/backend/pkg/logger"
	"github.com/clinify/backend/pkg/utils"
)

// Store is an in-process analysis store used when Redis is disabled. Values
// are kept as JSON so callers never share mutable state.
type Store struct {
	cache *gocache.Cache
}

func NewStore(defaultTTL, cleanupInterval time.Duration) *Store {
	logger.Info("In-memory store initialized",
		zap.Duration("default_ttl", defaultTTL),
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return &Store{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}

func analysisKey(id string) string {
	return "analysis:" + id
}

func explanationPrefix(id string) string {
	return "explanation:" + id + ":"
}

func explanationKey(id, condition string) string {
	return explanationPrefix(id) + utils.HashKey(condition)
}

func (s *Store) SetAnalysis(_ context.Context, id string, analysis interface{}, ttl time.Duration) error {
	if err := s.set(analysisKey(id), analysis, ttl); err != nil {
		return fmt.Errorf("failed to set analysis: %w", err)
	}
	return nil
}

func (s *Store) GetAnalysis(_ context.Context, id string, dst interface{}) (bool, error) {
	found, err := s.get(analysisKey(id), dst)
	if err != nil {
		return false, fmt.Errorf("failed to get analysis: %w", err)
	}
	return found, nil
}

func (s *Store) SetExplanation(_ context.Context, id, condition string, explanation interface{}, ttl time.Duration) error {
	if err := s.set(explanationKey(id, condition), explanation, ttl); err != nil {
		return fmt.Errorf("failed to set explanation: %w", err)
	}
	return nil
}

func (s *Store) GetExplanation(_ context.Context, id, condition string, dst interface{}) (bool, error) {
	found, err := s.get(explanationKey(id, condition), dst)
	if err != nil {
		return false, fmt.Errorf("failed to get explanation: %w", err)
	}
	return found, nil
}

func (s *Store) DeleteAnalysis(_ context.Context, id string) error {
	s.cache.Delete(analysisKey(id))

	prefix := explanationPrefix(id)
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
	return nil
}

func (s *Store) set(key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.cache.Set(key, data, ttl)
	return nil
}

func (s *Store) get(key string, dst interface{}) (bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(v.([]byte), dst); err != nil {
		return false, fmt.Errorf("unmarshal: %w", err)
	}
	return true, nil
}
