package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/uslegal/relevance"
	"github.com/jonwraymond/uslegal/uslegal"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Lookup: env(nil)})
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Zero(t, cfg.Upstream.Timeout, "only US Code carries its own bound")
	assert.Zero(t, cfg.ClientOptions(nil, nil).Timeout)
	assert.Equal(t, relevance.DefaultWeights(), cfg.Relevance)
	assert.Empty(t, cfg.Credentials.Congress)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "uslegal.yaml", `
server:
  transport: http
  addr: ":9090"
log:
  level: debug
  format: json
upstream:
  timeout: 5s
  us_code_timeout: 45s
relevance:
  threshold: 8
  bill_subject: 25
sources: [bills, opinions]
credentials:
  congress_api_key: from-file
`)

	cfg, err := Load(LoadOptions{File: path, Lookup: env(nil)})
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "uslegal-mcp", cfg.Server.Name, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Upstream.USCodeTimeout)
	assert.Equal(t, 8.0, cfg.Relevance.Threshold)
	assert.Equal(t, 25.0, cfg.Relevance.BillSubject)
	assert.Equal(t, relevance.DefaultWeights().BillTitle, cfg.Relevance.BillTitle)
	assert.Equal(t, "from-file", cfg.Credentials.Congress)
	assert.Equal(t, []string{"bills", "opinions"}, cfg.Sources)
}

func TestLoad_EnvPrecedence(t *testing.T) {
	file := writeFile(t, "uslegal.yaml", "credentials:\n  congress_api_key: from-file\n")
	dotenv := writeFile(t, ".env", "CONGRESS_API_KEY=from-dotenv\nCOURT_LISTENER_API_KEY=cl-dotenv\nREGULATIONS_GOV_API_KEY=regs-dotenv\n")

	cfg, err := Load(LoadOptions{
		File:    file,
		EnvFile: dotenv,
		Lookup: env(map[string]string{
			"REGULATIONS_GOV_API_KEY": "regs-env",
			EnvPort:                   "3000",
			EnvLogLevel:               "warn",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Credentials.Congress)
	assert.Equal(t, "cl-dotenv", cfg.Credentials.CourtListener)
	assert.Equal(t, "regs-env", cfg.Credentials.RegulationsGov)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_AddrBeatsPort(t *testing.T) {
	cfg, err := Load(LoadOptions{Lookup: env(map[string]string{EnvPort: "3000", EnvAddr: "127.0.0.1:4000"})})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr)
}

func TestLoad_MissingEnvFileIsSkipped(t *testing.T) {
	_, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "absent.env"), Lookup: env(nil)})
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"bad transport", "server:\n  transport: grpc\n", nil},
		{"bad level", "log:\n  level: loud\n", nil},
		{"bad format", "log:\n  format: xml\n", nil},
		{"negative weight", "relevance:\n  threshold: -1\n", nil},
		{"unknown source", "sources: [votes]\n", nil},
		{"bad timeout", "", map[string]string{EnvTimeout: "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := LoadOptions{Lookup: env(tt.env)}
			if tt.yaml != "" {
				opts.File = writeFile(t, "c.yaml", tt.yaml)
			}
			_, err := Load(opts)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml"), Lookup: env(nil)})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClientOptions(t *testing.T) {
	cfg := Default()
	cfg.Credentials = Credentials{Congress: "c", RegulationsGov: "r", CourtListener: "l"}
	cfg.Sources = []string{"opinions", "bills"}
	cfg.Upstream.USCodeTimeout = time.Minute

	opts := cfg.ClientOptions(nil, nil)

	assert.Equal(t, uslegal.Credentials{Congress: "c", RegulationsGov: "r", CourtListener: "l"}, opts.Credentials)
	assert.Equal(t, []uslegal.Source{uslegal.SourceOpinions, uslegal.SourceBills}, opts.Sources)
	assert.Equal(t, time.Minute, opts.USCodeTimeout)
	assert.Equal(t, cfg.Relevance, opts.Weights)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "source", "congress")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"source":"congress"`)
}
