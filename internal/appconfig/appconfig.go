// Package appconfig manages loading and interpreting application
// configuration.
package appconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout bounds each provider completion request.
	defaultRequestTimeout = 600 * time.Second
)

// Config is the top-level application configuration.
type Config struct {
	// WorkDir is where task, response, score and aggregation files are
	// written.
	WorkDir string `json:"workDir" mapstructure:"workDir"`

	// Format is the output encoding for score and aggregation files,
	// "json" or "csv".
	Format string `json:"format" mapstructure:"format"`

	Debug   bool   `json:"debug" mapstructure:"debug"`
	LogFile string `json:"logFile,omitempty" mapstructure:"logFile"`

	TimeoutSeconds int `json:"timeout,omitempty" mapstructure:"timeout"`

	// SignerSeed is the hex seed of the local development signer; empty
	// disables signature companions.
	SignerSeed string `json:"signerSeed,omitempty" mapstructure:"signerSeed"`

	Providers []ProviderConfig `json:"providers" mapstructure:"providers"`

	ConfigPath string `json:"-" mapstructure:"-"`
}

// ProviderConfig describes one provider endpoint and the models to exercise
// on it.
type ProviderConfig struct {
	Name    string   `json:"name" mapstructure:"name"`
	BaseURL string   `json:"baseURL,omitempty" mapstructure:"baseURL"`
	APIKey  string   `json:"apiKey,omitempty" mapstructure:"apiKey"`
	Models  []string `json:"models" mapstructure:"models"`
}

// RequestTimeout returns the provider request timeout, falling back to the
// default when unset.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the log file path, applying a default when unset.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "peerbench.log"
}

// OutputDir returns the output directory, applying a default when unset.
func (c Config) OutputDir() string {
	if dir := strings.TrimSpace(c.WorkDir); dir != "" {
		return dir
	}
	return "output"
}

// OutputFormat returns "json" unless the config selects csv.
func (c Config) OutputFormat() string {
	if strings.EqualFold(c.Format, "csv") {
		return "csv"
	}
	return "json"
}

// Property names are lowercase because viper lowercases every settings key;
// the schema must match what AllSettings actually yields or mistyped values
// would slip past validation.
const configSchemaDoc = `{
	"type": "object",
	"properties": {
		"workdir": {"type": "string"},
		"format": {"type": "string", "enum": ["json", "csv", ""]},
		"debug": {"type": "boolean"},
		"logfile": {"type": "string"},
		"timeout": {"type": "integer", "minimum": 0},
		"signerseed": {"type": "string"},
		"providers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"baseurl": {"type": "string"},
					"apikey": {"type": "string"},
					"models": {
						"type": "array",
						"items": {"type": "string"}
					}
				}
			}
		}
	}
}`

// Validate checks the raw settings map against the configuration schema and
// reports the first violation. Keys are lowercased first so maps that did
// not come through viper validate the same way.
func Validate(settings map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchemaDoc),
		gojsonschema.NewGoLoader(lowerKeys(settings)),
	)
	if err != nil {
		return fmt.Errorf("config schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	first := result.Errors()[0]
	return fmt.Errorf("invalid configuration at %s: %s", first.Field(), first.Description())
}

func lowerKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[strings.ToLower(key)] = lowerKeys(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = lowerKeys(inner)
		}
		return out
	default:
		return value
	}
}
