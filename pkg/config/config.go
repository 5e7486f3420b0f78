// Package config loads the service configuration.
package config

import (
	"io/fs"
	"strconv"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config holds the complete application configuration, loadable from a .env
// file, environment variables, flags, or a YAML config file.
type Config struct {
	Port             int           `env:"PORT" default:"5000" usage:"HTTP listen port"`
	Environment      string        `env:"ENVIRONMENT" default:"development" usage:"Deployment environment name"`
	OTELHost         string        `env:"OTEL_HOST" usage:"OTLP gRPC collector endpoint; tracing export is disabled when empty" flag:"otel-host"`
	TraceProbability float64       `env:"TRACE_PROBABILITY" default:"1.0" usage:"Trace sampling probability" flag:"trace-probability"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" default:"15s" usage:"Maximum graceful shutdown duration" flag:"shutdown-timeout"`
}

// Load reads .env (if present) into the process environment and then
// resolves Config from defaults, config.yaml, environment and args.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	if args == nil {
		args = []string{}
	}
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,
		Args:               args,
		Files:              []string{"config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, errors.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.TraceProbability < 0 || cfg.TraceProbability > 1 {
		return nil, errors.Errorf("trace probability %v out of range [0, 1]", cfg.TraceProbability)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + strconv.Itoa(c.Port)
}

// Debug reports whether the service runs in the development environment.
func (c *Config) Debug() bool {
	return c.Environment == "development"
}
