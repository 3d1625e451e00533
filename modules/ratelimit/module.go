package ratelimit

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// MiddlewareConfig configures the rate limiting middleware.
type MiddlewareConfig struct {
	IPConfig   Config
	UserConfig Config
	KeyPrefix  string
}

// DefaultMiddlewareConfig returns the default middleware configuration:
// 100 requests per minute per IP on the public routes, 1000 per minute per
// authenticated user.
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		IPConfig: Config{
			RequestsPerWindow: 100,
			WindowSize:        time.Minute,
		},
		UserConfig: Config{
			RequestsPerWindow: 1000,
			WindowSize:        time.Minute,
		},
		KeyPrefix: "taskboard:ratelimit:",
	}
}

// Module provides rate limiting as a mono module. Rate limiting is optional:
// when REDIS_ADDR is not set the module stays disabled and the API serves
// requests unthrottled, so the service runs without Redis in development.
type Module struct {
	client     *redis.Client
	middleware *Middleware
	config     MiddlewareConfig
	redisAddr  string
}

// Compile-time interface check.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new rate limiting module configured from REDIS_ADDR.
func NewModule() *Module {
	return &Module{
		redisAddr: os.Getenv("REDIS_ADDR"),
		config:    DefaultMiddlewareConfig(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "rate-limiter"
}

// Enabled reports whether rate limiting is active.
func (m *Module) Enabled() bool {
	return m.middleware != nil
}

// Middleware returns the Fiber rate limiting middleware, nil when disabled.
func (m *Module) Middleware() *Middleware {
	return m.middleware
}

// Start connects to Redis and builds the middleware.
func (m *Module) Start(ctx context.Context) error {
	if m.redisAddr == "" {
		log.Println("[rate-limiter] REDIS_ADDR not set, rate limiting disabled")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.redisAddr, err)
	}

	m.middleware = NewMiddleware(m.client, m.config)
	log.Printf("[rate-limiter] Connected to Redis at %s", m.redisAddr)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.Printf("[rate-limiter] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[rate-limiter] Module stopped")
	return nil
}
