package appconfig

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var c Config
	if got := c.RequestTimeout(); got != 600*time.Second {
		t.Fatalf("RequestTimeout() = %v, want 600s", got)
	}
	if got := c.LogFilePath(); got != "peerbench.log" {
		t.Fatalf("LogFilePath() = %q", got)
	}
	if got := c.OutputDir(); got != "output" {
		t.Fatalf("OutputDir() = %q", got)
	}
	if got := c.OutputFormat(); got != "json" {
		t.Fatalf("OutputFormat() = %q", got)
	}
}

func TestConfigOverrides(t *testing.T) {
	t.Parallel()

	c := Config{
		WorkDir:        "/tmp/bench",
		Format:         "CSV",
		LogFile:        "/var/log/bench.log",
		TimeoutSeconds: 30,
	}
	if got := c.RequestTimeout(); got != 30*time.Second {
		t.Fatalf("RequestTimeout() = %v", got)
	}
	if got := c.OutputDir(); got != "/tmp/bench" {
		t.Fatalf("OutputDir() = %q", got)
	}
	if got := c.OutputFormat(); got != "csv" {
		t.Fatalf("OutputFormat() = %q", got)
	}
	if got := c.LogFilePath(); got != "/var/log/bench.log" {
		t.Fatalf("LogFilePath() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := map[string]any{
		"workDir": "output",
		"format":  "json",
		"debug":   true,
		"providers": []any{
			map[string]any{
				"name":   "openrouter.ai",
				"apiKey": "sk-test",
				"models": []any{"owner/model"},
			},
		},
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	tests := []struct {
		name     string
		settings map[string]any
	}{
		{
			name:     "bad format",
			settings: map[string]any{"format": "yaml"},
		},
		{
			name:     "negative timeout",
			settings: map[string]any{"timeout": -1},
		},
		{
			name: "provider without name",
			settings: map[string]any{
				"providers": []any{map[string]any{"apiKey": "x"}},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := Validate(tt.settings); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}

// Viper lowercases every key it reads, so validation must catch mistyped
// values under the lowercased names of camelCase config fields.
func TestValidateThroughViper(t *testing.T) {
	t.Parallel()

	load := func(t *testing.T, doc string) map[string]any {
		t.Helper()
		v := viper.New()
		v.SetConfigType("json")
		if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
			t.Fatalf("read config: %v", err)
		}
		return v.AllSettings()
	}

	valid := `{
		"workDir": "output",
		"format": "csv",
		"logFile": "bench.log",
		"signerSeed": "abcd",
		"providers": [{"name": "openrouter.ai", "apiKey": "sk-test", "baseURL": "http://localhost", "models": ["owner/model"]}]
	}`
	if err := Validate(load(t, valid)); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name string
		doc  string
	}{
		{name: "workDir not a string", doc: `{"workDir": 12345}`},
		{name: "signerSeed not a string", doc: `{"signerSeed": ["not", "a", "string"]}`},
		{name: "logFile not a string", doc: `{"logFile": false}`},
		{name: "provider apiKey not a string", doc: `{"providers": [{"name": "openrouter.ai", "apiKey": 7}]}`},
		{name: "provider baseURL not a string", doc: `{"providers": [{"name": "openrouter.ai", "baseURL": 7}]}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := Validate(load(t, tt.doc)); err == nil {
				t.Fatal("expected the mistyped field to be rejected")
			}
		})
	}
}
