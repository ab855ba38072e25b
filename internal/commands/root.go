// Package commands wires the peerbench CLI: task conversion, prompt
// forwarding, scoring and aggregation.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/peerbench/peerbench/internal/appconfig"
	"github.com/peerbench/peerbench/internal/logging"
	"github.com/peerbench/peerbench/internal/output"
	"github.com/peerbench/peerbench/internal/providers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "peerbench",
	Short: "Normalize LLM task files, forward them to providers, score and rank the results",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		if err := appconfig.Validate(viper.AllSettings()); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+appconfig.DefaultConfigPath+")")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringP("work-dir", "w", "", "working directory for outputs")
	rootCmd.PersistentFlags().StringP("format", "f", "", `output file format, "json" or "csv"`)

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("workDir", rootCmd.PersistentFlags().Lookup("work-dir"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

func ensureConfigLoaded() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigFile(appconfig.DefaultConfigPath)
	}
	viper.SetEnvPrefix("PEERBENCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is fine; flags and env still apply.
		if cfgFile != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}
	return nil
}

// GetConfig returns the configuration resolved by PersistentPreRunE.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// buildRegistry constructs the provider registry from the configuration.
// The registry is passed explicitly to the components that need it.
func buildRegistry(cfg *appconfig.Config) (*providers.Registry, error) {
	timeout := cfg.RequestTimeout()
	built := make([]providers.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		switch pc.Name {
		case "openrouter.ai":
			built = append(built, providers.NewOpenRouter(pc.APIKey, pc.BaseURL, timeout))
		default:
			return nil, fmt.Errorf("unknown provider %q in configuration", pc.Name)
		}
	}
	return providers.NewRegistry(built...)
}

// buildSigner returns the configured signer, or nil when signing is
// disabled.
func buildSigner(cfg *appconfig.Config) (output.Signer, error) {
	if cfg.SignerSeed == "" {
		return nil, nil
	}
	return output.NewEd25519Signer(cfg.SignerSeed)
}

// outputTimestamp names output files within one command invocation.
func outputTimestamp() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}
