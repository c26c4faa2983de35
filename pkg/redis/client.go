package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/centrex/auth-service/internal/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection settings
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client wraps go-redis and is safe to use when Redis is disabled:
// every operation becomes a no-op/miss and callers fall through to the
// database.
type Client struct {
	rdb     *redis.Client
	enabled bool
	log     *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	if !cfg.Enabled {
		log.Info("Redis disabled, session cache falls back to database")
		return &Client{enabled: false, log: log}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	client := &Client{rdb: rdb, enabled: true, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Warn("Failed to connect to Redis, session cache disabled",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		client.enabled = false
		return client
	}

	log.Info("Successfully connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return client
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// SetSession caches a session-token lookup keyed by the token hash.
// The value is "<user_id>:<device_id>".
func (c *Client) SetSession(ctx context.Context, tokenHash string, userID uint, deviceID string, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}

	key := constants.CacheKeySession + tokenHash
	value := fmt.Sprintf("%d:%s", userID, deviceID)

	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Error("Failed to cache session",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to cache session: %w", err)
	}

	return nil
}

// GetSession resolves a cached session-token lookup. The third return
// value reports a cache hit; a miss is not an error.
func (c *Client) GetSession(ctx context.Context, tokenHash string) (uint, string, bool, error) {
	if !c.enabled {
		return 0, "", false, nil
	}

	key := constants.CacheKeySession + tokenHash
	value, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, "", false, nil
		}
		c.log.Error("Failed to read cached session",
			zap.String("key", key),
			zap.Error(err),
		)
		return 0, "", false, fmt.Errorf("failed to read cached session: %w", err)
	}

	userPart, deviceID, ok := strings.Cut(value, ":")
	if !ok {
		// Stale or malformed entry; drop it and report a miss.
		_ = c.rdb.Del(ctx, key).Err()
		return 0, "", false, nil
	}

	userID, err := strconv.ParseUint(userPart, 10, 32)
	if err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return 0, "", false, nil
	}

	return uint(userID), deviceID, true, nil
}

// DeleteSessions evicts cached lookups for the given token hashes.
// Called when tokens are revoked so a deleted token stops
// authenticating immediately.
func (c *Client) DeleteSessions(ctx context.Context, tokenHashes ...string) error {
	if !c.enabled || len(tokenHashes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tokenHashes))
	for _, hash := range tokenHashes {
		keys = append(keys, constants.CacheKeySession+hash)
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("Failed to evict cached sessions",
			zap.Int("count", len(keys)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to evict cached sessions: %w", err)
	}

	return nil
}
