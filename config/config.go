// Package config loads the server configuration.
//
// Values are layered, each layer overriding the previous one:
//   - built-in defaults
//   - an optional YAML file
//   - an optional .env file
//   - the process environment
//
// Command-line flags are applied on top by the caller. The result is built
// once at startup and passed by value; nothing else reads the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/uslegal/metrics"
	"github.com/jonwraymond/uslegal/relevance"
	"github.com/jonwraymond/uslegal/source"
	"github.com/jonwraymond/uslegal/source/congress"
	"github.com/jonwraymond/uslegal/source/courtlistener"
	"github.com/jonwraymond/uslegal/source/regulations"
	"github.com/jonwraymond/uslegal/uslegal"
)

// Environment variables read by Load.
const (
	EnvConfigFile = "USLEGAL_CONFIG"
	EnvAddr       = "USLEGAL_ADDR"
	EnvPort       = "PORT"
	EnvTransport  = "USLEGAL_TRANSPORT"
	EnvLogLevel   = "USLEGAL_LOG_LEVEL"
	EnvLogFormat  = "USLEGAL_LOG_FORMAT"
	EnvTimeout    = "USLEGAL_TIMEOUT"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete server configuration.
type Config struct {
	Credentials Credentials       `yaml:"credentials"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Relevance   relevance.Weights `yaml:"relevance"`

	// Sources is the set search_all style aggregation fans out to. Empty
	// means every source.
	Sources []string `yaml:"sources"`
}

// Credentials holds upstream API keys. Every key is optional.
type Credentials struct {
	Congress       string `yaml:"congress_api_key"`
	RegulationsGov string `yaml:"regulations_gov_api_key"`
	CourtListener  string `yaml:"court_listener_api_key"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	// Transport is "stdio" or "http".
	Transport string `yaml:"transport"`
	// Addr is the HTTP listen address.
	Addr    string `yaml:"addr"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// UpstreamConfig configures the shared upstream HTTP behavior.
type UpstreamConfig struct {
	// Timeout bounds sources that have no bound of their own. Zero leaves
	// them to the HTTP transport.
	Timeout       time.Duration `yaml:"timeout"`
	USCodeTimeout time.Duration `yaml:"us_code_timeout"`
	UserAgent     string        `yaml:"user_agent"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			Addr:      ":8080",
			Name:      "uslegal-mcp",
			Version:   "1.0.0",
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Upstream: UpstreamConfig{
			UserAgent: source.DefaultUserAgent,
		},
		Relevance: relevance.DefaultWeights(),
	}
}

// LoadOptions selects the optional layers.
type LoadOptions struct {
	// File is a YAML config file. Empty skips the layer.
	File string
	// EnvFile is a .env file. A missing file is skipped.
	EnvFile string
	// Lookup reads the environment. Default: os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load builds and validates a Config.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := cfg.loadFile(opts.File); err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.File, err)
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if opts.EnvFile != "" {
		dotenv, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", opts.EnvFile, err)
		}
		lookup = withFallback(lookup, dotenv)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into c. Keys absent from the file keep their
// current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// withFallback consults lookup first, then values. The real environment
// wins over a .env file.
func withFallback(lookup func(string) (string, bool), values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(congress.EnvAPIKey, &c.Credentials.Congress)
	set(regulations.EnvAPIKey, &c.Credentials.RegulationsGov)
	set(courtlistener.EnvAPIKey, &c.Credentials.CourtListener)

	if port, ok := lookup(EnvPort); ok && port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	set(EnvAddr, &c.Server.Addr)
	set(EnvTransport, &c.Server.Transport)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvTimeout, err)
		}
		c.Upstream.Timeout = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%w: server.transport must be %q or %q, got %q", ErrInvalid, TransportStdio, TransportHTTP, c.Server.Transport)
	}
	if c.Server.Transport == TransportHTTP && c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required for http transport", ErrInvalid)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	if c.Upstream.Timeout < 0 || c.Upstream.USCodeTimeout < 0 {
		return fmt.Errorf("%w: upstream timeouts must not be negative", ErrInvalid)
	}
	if err := c.Relevance.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for _, s := range c.Sources {
		if _, err := uslegal.ParseSource(s); err != nil {
			return fmt.Errorf("%w: sources: %q: %w", ErrInvalid, s, err)
		}
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ClientOptions maps the configuration onto facade options.
func (c *Config) ClientOptions(logger *slog.Logger, m *metrics.Metrics) uslegal.Options {
	opts := uslegal.Options{
		Credentials: uslegal.Credentials{
			Congress:       c.Credentials.Congress,
			RegulationsGov: c.Credentials.RegulationsGov,
			CourtListener:  c.Credentials.CourtListener,
		},
		UserAgent:     c.Upstream.UserAgent,
		Timeout:       c.Upstream.Timeout,
		USCodeTimeout: c.Upstream.USCodeTimeout,
		Logger:        logger,
		Metrics:       m,
		Weights:       c.Relevance,
	}
	for _, s := range c.Sources {
		if src, err := uslegal.ParseSource(s); err == nil {
			opts.Sources = append(opts.Sources, src)
		}
	}
	return opts
}
