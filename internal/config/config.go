// Package config loads the gate configuration from an optional YAML file,
// layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"schemagate/internal/discover"
	"schemagate/internal/report"
	"schemagate/internal/schema/types"
)

// Duration wraps time.Duration so YAML values like "15s" parse with
// time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard-library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RegistryConfig selects the version history backend. Setting NATSURL
// switches from the HTTP registry API to reading a NATS key-value bucket
// directly.
type RegistryConfig struct {
	URL     string   `yaml:"url"`
	NATSURL string   `yaml:"nats_url"`
	Bucket  string   `yaml:"bucket"`
	Timeout Duration `yaml:"timeout"`
}

// SchemasConfig describes the proposed schema files under review.
type SchemasConfig struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

// RunConfig tunes the run itself.
type RunConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Format      string `yaml:"format"`
}

// Config is the root of the YAML config file.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Schemas  SchemasConfig  `yaml:"schemas"`
	Run      RunConfig      `yaml:"run"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Registry: RegistryConfig{
			URL:     "http://localhost:8081",
			Bucket:  "SCHEMAS",
			Timeout: Duration(15 * time.Second),
		},
		Schemas: SchemasConfig{
			Type:    string(types.Avro),
			Pattern: discover.DefaultPattern,
		},
		Run: RunConfig{
			Concurrency: 4,
			Format:      report.FormatText,
		},
	}
}

// LoadFromFile reads a YAML file over the defaults, so a partial file only
// overrides the keys it names.
func LoadFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the gate cannot run with.
func (c Config) Validate() error {
	if c.Registry.URL == "" && c.Registry.NATSURL == "" {
		return fmt.Errorf("either registry.url or registry.nats_url must be set")
	}
	switch types.SchemaType(c.Schemas.Type) {
	case types.Avro, types.JSON, types.Protobuf:
	default:
		return fmt.Errorf("unknown schema type: %s", c.Schemas.Type)
	}
	if c.Schemas.Pattern == "" {
		return fmt.Errorf("schemas.pattern must not be empty")
	}
	switch c.Run.Format {
	case report.FormatText, report.FormatJSON:
	default:
		return fmt.Errorf("unknown report format: %s", c.Run.Format)
	}
	if c.Run.Concurrency < 1 {
		return fmt.Errorf("run.concurrency must be at least 1")
	}
	return nil
}
