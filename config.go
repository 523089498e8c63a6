package asyncprops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the orchestrator and server options.
//
//	params_equality: canonical
//	server:
//	  concurrency: 8
//	  rate_limit: 50
//	  burst: 10
//	  dedupe: true
//	hydration:
//	  global: __ASYNC_PROPS__
type Config struct {
	ParamsEquality string          `yaml:"params_equality"`
	Server         ServerConfig    `yaml:"server"`
	Hydration      HydrationConfig `yaml:"hydration"`
}

// ServerConfig tunes server-side loading.
type ServerConfig struct {
	Concurrency int     `yaml:"concurrency"`
	RateLimit   float64 `yaml:"rate_limit"`
	Burst       int     `yaml:"burst"`
	Dedupe      *bool   `yaml:"dedupe"`
}

// HydrationConfig names the payload's script global.
type HydrationConfig struct {
	Global string `yaml:"global"`
}

// DefaultConfig returns the configuration matching the option defaults.
func DefaultConfig() Config {
	return Config{
		ParamsEquality: EqualityDeep,
		Hydration:      HydrationConfig{Global: DefaultGlobal},
	}
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig. Unknown keys are rejected.
// An empty document yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if _, err := ParamsEqualByName(c.ParamsEquality); err != nil {
		return err
	}
	if c.Server.Concurrency < 0 {
		return fmt.Errorf("server.concurrency must be >= 0, got %d", c.Server.Concurrency)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0, got %v", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
		return fmt.Errorf("server.burst must be > 0 when rate_limit is set")
	}
	if c.Hydration.Global != "" && !globalName.MatchString(c.Hydration.Global) {
		return fmt.Errorf("hydration.global %q is not a valid script identifier", c.Hydration.Global)
	}
	return nil
}

// Options converts the config into options.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	eq, _ := ParamsEqualByName(c.ParamsEquality)
	opts := []Option{
		WithParamsEqual(eq),
		WithGlobal(c.Hydration.Global),
		WithConcurrency(c.Server.Concurrency),
		WithRateLimit(c.Server.RateLimit, c.Server.Burst),
	}
	if c.Server.Dedupe != nil {
		opts = append(opts, WithDedupe(*c.Server.Dedupe))
	}
	return opts, nil
}
