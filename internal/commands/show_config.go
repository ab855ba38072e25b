package commands

import (
	"github.com/k0kubun/pp"
	"github.com/peerbench/peerbench/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd displays the fully resolved configuration after file, env
// and flag overrides are applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		redacted := *cfg
		redacted.Providers = append([]appconfig.ProviderConfig(nil), cfg.Providers...)
		for i := range redacted.Providers {
			if redacted.Providers[i].APIKey != "" {
				redacted.Providers[i].APIKey = "********"
			}
		}
		pp.Println(redacted)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application state",
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
