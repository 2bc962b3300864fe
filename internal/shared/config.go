package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"` // empty disables the side server

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"50"`

	Storage Storage
	Session Session
	Redis   Redis
}

// Storage selects the durable backend: sqlite|mysql|postgres|redis|memory.
type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DSN    string `env:"STORAGE_DSN" envDefault:"directory.db"`
}

// Session selects the session backend: memory|redis.
type Session struct {
	Driver string        `env:"SESSION_DRIVER" envDefault:"memory"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"directory:"`
}

var (
	storageDrivers = map[string]bool{"sqlite": true, "mysql": true, "postgres": true, "redis": true, "memory": true}
	sessionDrivers = map[string]bool{"memory": true, "redis": true}
)

func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}
	if !storageDrivers[c.Storage.Driver] {
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if !sessionDrivers[c.Session.Driver] {
		return Config{}, fmt.Errorf("unknown SESSION_DRIVER %q", c.Session.Driver)
	}
	return c, nil
}
