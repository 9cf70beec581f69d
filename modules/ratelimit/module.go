package ratelimit

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module provides rate limiting as a mono module. It is only registered
// when a Redis address is configured; the api module treats it as optional.
type Module struct {
	client     *redis.Client
	middleware *Middleware
	config     Config
	redisAddr  string
}

// Compile-time interface check.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new rate limiting module.
func NewModule(redisAddr string) *Module {
	return &Module{
		redisAddr: redisAddr,
		config:    DefaultConfig(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "rate-limiter"
}

// Init connects to Redis and builds the middleware.
func (m *Module) Init(_ mono.ServiceContainer) error {
	m.client = redis.NewClient(&redis.Options{
		Addr: m.redisAddr,
	})

	if err := m.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	limiter := NewLimiter(m.client, m.config, "ratelimit:ip:")
	m.middleware = NewMiddleware(limiter, m.config.RequestsPerWindow)

	log.Printf("[rate-limiter] Connected to Redis at %s", m.redisAddr)
	return nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	log.Println("[rate-limiter] Module started")
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

// GetMiddleware returns the rate limiting middleware.
func (m *Module) GetMiddleware() *Middleware {
	return m.middleware
}
