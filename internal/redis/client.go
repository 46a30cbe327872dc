package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Nonce management. A nonce is issued per admin order-edit screen and
// checked on every AJAX item save.

func (c *Client) IssueNonce(action string, userID uint, ttl time.Duration) (string, error) {
	ctx := context.Background()
	token := uuid.NewString()
	key := fmt.Sprintf("nonce:%s:%s", action, token)
	if err := c.rdb.Set(ctx, key, userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}
	return token, nil
}

func (c *Client) CheckNonce(action, token string) (bool, error) {
	ctx := context.Background()
	key := fmt.Sprintf("nonce:%s:%s", action, token)
	_, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check nonce: %w", err)
	}
	return true, nil
}

// Session tokens issued at login and presented as bearer tokens.

func (c *Client) IssueSession(userID uint, ttl time.Duration) (string, error) {
	ctx := context.Background()
	token := uuid.NewString()
	if err := c.rdb.Set(ctx, "session:"+token, userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (c *Client) SessionUserID(token string) (uint, bool, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "session:"+token).Uint64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to check session: %w", err)
	}
	return uint(val), true, nil
}

func (c *Client) RevokeSession(token string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "session:"+token).Err()
}

// Markup table cache. Parsed regional markup tables are cached between
// settings saves.

func (c *Client) SetMarkupTable(key string, table map[string]float64, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal markup table: %w", err)
	}
	return c.rdb.Set(ctx, "markups:"+key, jsonData, ttl).Err()
}

func (c *Client) GetMarkupTable(key string) (map[string]float64, bool, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "markups:"+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get markup table: %w", err)
	}

	var table map[string]float64
	if err := json.Unmarshal([]byte(val), &table); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal markup table: %w", err)
	}
	return table, true, nil
}

func (c *Client) InvalidateMarkupTable(key string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "markups:"+key).Err()
}
