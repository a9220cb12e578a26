package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"ponder/internal/model"
)

const catalogKey = "questions:catalog"

// CatalogCache keeps the full question catalog in Redis. Admin writes
// invalidate it; readers fall back to the database on any miss or error.
type CatalogCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redisv9.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) GetQuestions(ctx context.Context) ([]model.Question, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get catalog failed: %w", err)
	}

	var questions []model.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached catalog failed: %w", err)
	}
	return questions, true, nil
}

func (c *CatalogCache) SetQuestions(ctx context.Context, questions []model.Question) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal catalog cache failed: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete catalog failed: %w", err)
	}
	return nil
}
