package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"schemagate/internal/config"
	"schemagate/internal/discover"
	"schemagate/internal/gate"
	"schemagate/internal/registry"
	"schemagate/internal/report"
	"schemagate/internal/schema"
	"schemagate/internal/schema/types"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// cliOverrides holds flag values layered over the config file. Empty or zero
// values leave the file's (or default) setting untouched.
type cliOverrides struct {
	ConfigPath  string
	RegistryURL string
	NATSURL     string
	Bucket      string
	SchemaType  string
	Pattern     string
	Format      string
	Concurrency int
	Timeout     time.Duration
	Debug       bool
}

func (c *cliOverrides) load() {
	flag.StringVar(&c.ConfigPath, "config", getEnv("SCHEMAGATE_CONFIG", ""), "Path to YAML config file")
	flag.StringVar(&c.RegistryURL, "registry-url", getEnv("REGISTRY_URL", ""), "Schema registry base URL")
	flag.StringVar(&c.NATSURL, "nats-url", getEnv("NATS_URL", ""), "NATS server URL (read the KV bucket instead of the registry API)")
	flag.StringVar(&c.Bucket, "schema-bucket", getEnv("SCHEMA_BUCKET", ""), "JetStream KV bucket holding schema versions")
	flag.StringVar(&c.SchemaType, "schema-type", getEnv("SCHEMA_TYPE", ""), "Schema type of the proposed files (AVRO, JSON or PROTOBUF)")
	flag.StringVar(&c.Pattern, "pattern", getEnv("SCHEMA_PATTERN", ""), "Glob pattern for schema file discovery")
	flag.StringVar(&c.Format, "format", getEnv("REPORT_FORMAT", ""), "Report format (text or json)")
	flag.IntVar(&c.Concurrency, "concurrency", getEnvInt("SCHEMAGATE_CONCURRENCY", 0), "Number of subjects checked in parallel")
	flag.DurationVar(&c.Timeout, "timeout", 0, "Registry request timeout")
	flag.BoolVar(&c.Debug, "debug", getEnvBool("DEBUG", false), "Enable debug logging")
}

func main() {
	os.Exit(run())
}

func run() int {
	overrides := cliOverrides{}
	overrides.load()
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if overrides.Debug {
		logLevel = slog.LevelDebug
	}

	// Logs go to stderr so the report owns stdout
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(logHandler))

	cfg, err := resolveConfig(overrides)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return exitUsage
	}

	files, err := collectFiles(flag.Args(), cfg.Schemas.Pattern)
	if err != nil {
		slog.Error("Failed to collect schema files", "error", err)
		return exitUsage
	}
	if len(files) == 0 {
		slog.Error("No schema files matched", "pattern", cfg.Schemas.Pattern)
		return exitUsage
	}

	client, closeClient, err := newRegistryClient(cfg.Registry)
	if err != nil {
		slog.Error("Failed to set up registry client", "error", err)
		return exitUsage
	}
	defer closeClient()

	g := gate.New(client, schema.NewOracle(), gate.Options{
		SchemaType:  types.SchemaType(cfg.Schemas.Type),
		Concurrency: cfg.Run.Concurrency,
	})

	outcome := g.Validate(context.Background(), files)

	if err := report.Write(os.Stdout, cfg.Run.Format, outcome); err != nil {
		slog.Error("Failed to write report", "error", err)
		return exitFailed
	}

	if !outcome.OK {
		return exitFailed
	}
	return exitOK
}

// resolveConfig layers defaults, the optional config file and flag overrides,
// then validates the result.
func resolveConfig(overrides cliOverrides) (config.Config, error) {
	cfg := config.DefaultConfig()
	if overrides.ConfigPath != "" {
		loaded, err := config.LoadFromFile(overrides.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if overrides.RegistryURL != "" {
		cfg.Registry.URL = overrides.RegistryURL
	}
	if overrides.NATSURL != "" {
		cfg.Registry.NATSURL = overrides.NATSURL
	}
	if overrides.Bucket != "" {
		cfg.Registry.Bucket = overrides.Bucket
	}
	if overrides.Timeout > 0 {
		cfg.Registry.Timeout = config.Duration(overrides.Timeout)
	}
	if overrides.SchemaType != "" {
		cfg.Schemas.Type = overrides.SchemaType
	}
	if overrides.Pattern != "" {
		cfg.Schemas.Pattern = overrides.Pattern
	}
	if overrides.Format != "" {
		cfg.Run.Format = overrides.Format
	}
	if overrides.Concurrency > 0 {
		cfg.Run.Concurrency = overrides.Concurrency
	}

	cfg.Schemas.Type = strings.ToUpper(cfg.Schemas.Type)
	cfg.Run.Format = strings.ToLower(cfg.Run.Format)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// collectFiles resolves the positional arguments to schema files. With no
// arguments the working tree is searched with the configured pattern.
func collectFiles(args []string, pattern string) ([]string, error) {
	if len(args) == 0 {
		return discover.Discover(".", pattern)
	}
	return discover.Expand(args, pattern)
}

func newRegistryClient(cfg config.RegistryConfig) (registry.Client, func(), error) {
	if cfg.NATSURL != "" {
		slog.Debug("Using NATS KV registry backend", "url", cfg.NATSURL, "bucket", cfg.Bucket)
		return registry.DialKV(cfg.NATSURL, cfg.Bucket)
	}

	slog.Debug("Using HTTP registry backend", "url", cfg.URL)
	return registry.NewHTTPClient(cfg.URL, cfg.Timeout.Std()), func() {}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1" || v == "yes"
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
