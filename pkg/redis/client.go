package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Keys are "<namespace>:<kind>:<id>".
const (
	namespace     = "laptopshop"
	kindSession   = "session"
	kindRateLimit = "rate_limit"
)

var (
	// ErrNotFound is returned when a session key is absent or expired.
	ErrNotFound = errors.New("redis: key not found")

	errNotConnected = errors.New("redis client not initialized")
)

// Client holds the storefront's Redis state: login sessions and attempt
// counters for the credential forms.
type Client struct {
	rdb *redis.Client
}

// New connects using cfg and pings once before returning.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	client := Wrap(redis.NewClient(opts))
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"redis_addr": opts.Addr,
			"redis_db":   opts.DB,
			"pool_size":  opts.PoolSize,
		}), "redis.connected")
	}
	return client, nil
}

// Wrap adopts an existing go-redis client. Used by tests against miniredis.
func Wrap(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// optionsFromConfig prefers the URL and lets explicit settings fill whatever
// the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if parsed.DB == 0 {
			parsed.DB = cfg.DB
		}
		opts = parsed
	case cfg.Address == "":
		return nil, errors.New("redis url or address is required")
	}

	opts.PoolSize = firstPositive(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = firstPositive(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = firstPositive(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = firstPositive(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = firstPositive(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func firstPositive[T int | time.Duration](current, fallback T) T {
	if current > 0 {
		return current
	}
	return fallback
}

func key(kind, id string) string {
	return namespace + ":" + kind + ":" + id
}

// PutSession records that sessionID belongs to userID until ttl passes.
func (c *Client) PutSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if c.rdb == nil {
		return errNotConnected
	}
	return c.rdb.Set(ctx, key(kindSession, sessionID), userID, ttl).Err()
}

// SessionOwner returns the user id stored for sessionID, or ErrNotFound.
func (c *Client) SessionOwner(ctx context.Context, sessionID string) (string, error) {
	if c.rdb == nil {
		return "", errNotConnected
	}
	owner, err := c.rdb.Get(ctx, key(kindSession, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return owner, err
}

// DropSession deletes sessionID. Missing sessions are not an error.
func (c *Client) DropSession(ctx context.Context, sessionID string) error {
	if c.rdb == nil {
		return errNotConnected
	}
	return c.rdb.Del(ctx, key(kindSession, sessionID)).Err()
}

// FixedWindowAllow counts one attempt against scope and reports whether the
// count is still within limit. The window starts at the first attempt. A
// counter found without an expiry gets one, whichever attempt notices.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.rdb == nil {
		return false, 0, errNotConnected
	}
	k := key(kindRateLimit, scope)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	}); err != nil {
		return false, 0, fmt.Errorf("counting %s: %w", scope, err)
	}

	count := incr.Val()
	// PTTL is negative when the key has no expiry yet.
	if window > 0 && ttl.Val() < 0 {
		if err := c.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return false, count, fmt.Errorf("expiring %s: %w", scope, err)
		}
	}
	return count <= limit, count, nil
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return errNotConnected
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
