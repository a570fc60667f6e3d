package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend  BackendConfig
	Session  SessionConfig
	Redis    RedisConfig
}

type BackendConfig struct {
	URL string `env:"BACKEND_URL, default=http://localhost:8000"`
	// TokenWaitMillis bounds the authorizer's one-shot wait for a token that
	// login may not have persisted yet.
	TokenWaitMillis int `env:"TOKEN_WAIT_MS, default=100"`
}

type SessionConfig struct {
	// StoreDriver selects the credential store: memory, file or redis.
	StoreDriver string `env:"SESSION_STORE, default=memory"`
	FilePath    string `env:"SESSION_FILE,  default=.kedikian/session.json"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD, default="`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
