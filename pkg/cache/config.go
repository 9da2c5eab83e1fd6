package cache

import "time"

// RedisOption configures NewRedisCache.
type RedisOption func(*RedisConfig)

// RedisConfig holds connection and pool settings for the remote cache.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	// Prefix namespaces every key, e.g. "xsp" gives "xsp:calendar:2025-03-12".
	Prefix string
}

func WithRedisHost(host string) RedisOption { return func(c *RedisConfig) { c.Host = host } }

func WithRedisPort(port int) RedisOption { return func(c *RedisConfig) { c.Port = port } }

func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) { c.Password = password }
}

func WithRedisDB(db int) RedisOption { return func(c *RedisConfig) { c.DB = db } }

func WithRedisPrefix(prefix string) RedisOption { return func(c *RedisConfig) { c.Prefix = prefix } }

// MemoryOption configures NewMemoryCache.
type MemoryOption func(*MemoryConfig)

// MemoryConfig bounds the in-process cache.
type MemoryConfig struct {
	MaxSize int
	// CleanupInterval of zero disables the background sweep; expired
	// entries are then dropped lazily on Get.
	CleanupInterval time.Duration
	DefaultTTL      time.Duration
}

func WithMemoryMaxSize(size int) MemoryOption { return func(c *MemoryConfig) { c.MaxSize = size } }

func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(c *MemoryConfig) { c.CleanupInterval = interval }
}

// LayeredOption configures NewLayeredCache.
type LayeredOption func(*LayeredConfig)

// LayeredConfig sizes the L1 in front of Redis.
type LayeredConfig struct {
	MemoryMaxSize int
	// MemoryTTL caps how long L1 holds a value so a Redis flush propagates.
	MemoryTTL time.Duration
}

func WithLayeredMemorySize(size int) LayeredOption {
	return func(c *LayeredConfig) { c.MemoryMaxSize = size }
}

func WithLayeredMemoryTTL(ttl time.Duration) LayeredOption {
	return func(c *LayeredConfig) { c.MemoryTTL = ttl }
}
