// Package config defines environment configuration structs and loaders.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tensorplex-labs/cci/internal/cci"
)

type AppConfig struct {
	CCIEnvConfig
	DatasetEnvConfig
	ServerEnvConfig
	ClientEnvConfig
	RedisEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CCIEnvConfig holds the computation parameters.
type CCIEnvConfig struct {
	Level          string `env:"CCI_LEVEL" envDefault:"low"`
	Components     int    `env:"CCI_COMPONENTS" envDefault:"1"`
	Workers        int    `env:"CCI_WORKERS" envDefault:"0"`
	Strategy       string `env:"CCI_STRATEGY" envDefault:"raw"`
	StrictBaseline bool   `env:"CCI_STRICT_BASELINE" envDefault:"false"`
}

// Options converts the environment values into orchestrator options.
func (c *CCIEnvConfig) Options() ([]cci.Option, error) {
	level, err := cci.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	strategy, err := cci.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	if c.Components < 1 {
		return nil, fmt.Errorf("CCI_COMPONENTS must be at least 1, got %d", c.Components)
	}
	return []cci.Option{
		cci.WithLevel(level),
		cci.WithComponents(c.Components),
		cci.WithWorkers(c.Workers),
		cci.WithStrategy(strategy),
		cci.WithStrictBaseline(c.StrictBaseline),
	}, nil
}

// DatasetEnvConfig locates session blobs and result output.
type DatasetEnvConfig struct {
	DataDir       string `env:"CCI_DATA_DIR" envDefault:"./source_estimates"`
	OutputDir     string `env:"CCI_OUTPUT_DIR" envDefault:"."`
	SubjectPrefix string `env:"CCI_SUBJECT_PREFIX" envDefault:"Cichy_s"`
}

// ServerEnvConfig configures the server.
type ServerEnvConfig struct {
	Host      string `env:"CCI_SERVER_HOST" envDefault:"0.0.0.0"`
	Port      int    `env:"CCI_SERVER_PORT" envDefault:"8888"`
	BodyLimit int    `env:"CCI_SERVER_BODY_LIMIT" envDefault:"67108864"`
}

// ClientEnvConfig configures the client.
type ClientEnvConfig struct {
	ServerURL     string        `env:"CCI_SERVER_URL" envDefault:"http://127.0.0.1:8888"`
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"5m"`
	RetryMax      int           `env:"CLIENT_RETRY_MAX" envDefault:"3"`
	RetryWait     time.Duration `env:"CLIENT_RETRY_WAIT" envDefault:"500ms"`
}

// RedisEnvConfig configures the result cache. An empty host disables it.
type RedisEnvConfig struct {
	RedisHost     string        `env:"REDIS_HOST"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CCI_CACHE_TTL" envDefault:"24h"`
}
