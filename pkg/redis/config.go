package redis

import "time"

// Config holds Redis connection settings. The executor only needs Redis when
// several instances share the send lock; a single instance runs fine on the
// in-memory locker with ConnectionURL left empty.
type Config struct {
	ConnectionURL string        `env:"REDIS_URL"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"5"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleTime   time.Duration `env:"REDIS_MAX_IDLE_TIME" envDefault:"10m"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"3s"`
	DialTimeout   time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
}

// Configured reports whether a connection URL is present.
func (c Config) Configured() bool {
	return c.ConnectionURL != ""
}
