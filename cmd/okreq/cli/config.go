package cli

import (
	"fmt"
	"strings"

	"github.com/ssj4429108/OkRequest/config"
	"github.com/ssj4429108/OkRequest/httpclient"
	"github.com/ssj4429108/OkRequest/logger"
	"github.com/ssj4429108/OkRequest/observability"
	"github.com/ssj4429108/OkRequest/version"
)

const (
	appName   = "okreq"
	envPrefix = "OKREQ"
)

// Config is the okreq configuration file layout.
type Config struct {
	Logging   logger.Config                 `yaml:"logging" mapstructure:"logging"`
	HTTP      httpclient.Config             `yaml:"http" mapstructure:"http"`
	Telemetry observability.TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "error"
	}
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.HTTP.Headers == nil {
		c.HTTP.Headers = map[string]string{}
	}
	if !hasKeyFold(c.HTTP.Headers, "User-Agent") {
		c.HTTP.Headers["User-Agent"] = version.UserAgent()
	}
	if c.Telemetry.Tracer.ServiceName == "" {
		c.Telemetry.Tracer = observability.DefaultTracerConfig(appName)
	}
	if c.Telemetry.Meter.ServiceName == "" {
		c.Telemetry.Meter = observability.DefaultMeterConfig(appName)
	}
}

func hasKeyFold(m map[string]string, key string) bool {
	for k := range m {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// loadConfig reads okreq.yaml (or path) and OKREQ_* variables, then lets
// override adjust the result before defaults and validation.
func loadConfig(path string, override func(*Config)) (*Config, error) {
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	var cfg Config
	if err := config.LoadConfig(appName, &cfg, opts...); err != nil {
		return nil, withCode(ExitConfigError, err)
	}
	if override != nil {
		override(&cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, withCode(ExitConfigError, fmt.Errorf("config: %w", err))
	}
	return &cfg, nil
}
