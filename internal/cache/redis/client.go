package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinify/backend/pkg/logger"
	"github.com/clinify/backend/pkg/utils"
)

// Client keeps analyses and their explanations in Redis as JSON values.
type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	return New(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})
}

func New(opts *redis.Options) (*Client, error) {
	client := redis.NewClient(opts)

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", opts.Addr))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func analysisKey(id string) string {
	return fmt.Sprintf("analysis:%s", id)
}

func explanationKey(id, condition string) string {
	return fmt.Sprintf("explanation:%s:%s", id, utils.HashKey(condition))
}

func (c *Client) SetAnalysis(ctx context.Context, id string, analysis interface{}, ttl time.Duration) error {
	if err := c.set(ctx, analysisKey(id), analysis, ttl); err != nil {
		return fmt.Errorf("failed to set analysis: %w", err)
	}
	logger.Debug("Analysis stored", zap.String("analysis_id", id), zap.Duration("ttl", ttl))
	return nil
}

func (c *Client) GetAnalysis(ctx context.Context, id string, dst interface{}) (bool, error) {
	found, err := c.get(ctx, analysisKey(id), dst)
	if err != nil {
		return false, fmt.Errorf("failed to get analysis: %w", err)
	}
	return found, nil
}

func (c *Client) SetExplanation(ctx context.Context, id, condition string, explanation interface{}, ttl time.Duration) error {
	if err := c.set(ctx, explanationKey(id, condition), explanation, ttl); err != nil {
		return fmt.Errorf("failed to set explanation: %w", err)
	}
	logger.Debug("Explanation cached", zap.String("analysis_id", id), zap.String("condition", condition))
	return nil
}

func (c *Client) GetExplanation(ctx context.Context, id, condition string, dst interface{}) (bool, error) {
	found, err := c.get(ctx, explanationKey(id, condition), dst)
	if err != nil {
		return false, fmt.Errorf("failed to get explanation: %w", err)
	}
	return found, nil
}

// DeleteAnalysis removes the analysis and every explanation cached for it.
func (c *Client) DeleteAnalysis(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, analysisKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	iter := c.client.Scan(ctx, 0, "explanation:"+escapeGlob(id)+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate explanation keys: %w", err)
	}

	logger.Debug("Analysis deleted", zap.String("analysis_id", id))
	return nil
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *Client) set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Client) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal: %w", err)
	}
	return true, nil
}
