package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peerbench/peerbench/internal/bench"
	"github.com/peerbench/peerbench/internal/logging"
	"github.com/peerbench/peerbench/internal/output"
	"github.com/peerbench/peerbench/internal/task"
	"github.com/spf13/cobra"
)

var (
	promptModels     []string
	promptMaxPrompts int
)

// promptCmd forwards the prompts of the given task files to every
// configured (provider, model) pair and saves the raw responses.
var promptCmd = &cobra.Command{
	Use:   "prompt [task files...]",
	Short: "Forward task prompts to the configured models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		registry, err := buildRegistry(cfg)
		if err != nil {
			return err
		}
		signer, err := buildSigner(cfg)
		if err != nil {
			return err
		}

		targets, err := resolveTargets(promptModels)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			for _, pc := range cfg.Providers {
				for _, model := range pc.Models {
					targets = append(targets, bench.Target{Provider: pc.Name, ModelID: model})
				}
			}
		}
		if len(targets) == 0 {
			return fmt.Errorf("no models to prompt; configure providers or pass --model")
		}

		reader := task.NewReader()
		for _, path := range args {
			t, formatUsed, err := reader.ReadFromFile(path)
			if err != nil {
				logging.L().WithError(err).Warnf("skipping %s", path)
				continue
			}
			logging.L().Infof("forwarding %s (%s, %d prompts) to %d models", path, formatUsed, len(t.Prompts), len(targets))

			responses, err := bench.Run(cmd.Context(), registry, t, targets, bench.Options{MaxPrompts: promptMaxPrompts})
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(t.FileName, filepath.Ext(t.FileName))
			outPath, err := output.SaveEntity(responses, output.SaveOptions{
				Dir:    filepath.Join(cfg.OutputDir(), "responses"),
				Prefix: "responses-" + base,
				Suffix: outputTimestamp(),
				Format: output.FormatJSON,
				Signer: signer,
			})
			if err != nil {
				return err
			}
			logging.L().Infof("%d responses saved to %s", len(responses), outPath)
		}
		return nil
	},
}

// resolveTargets parses --model values of the form "provider:modelID".
func resolveTargets(specs []string) ([]bench.Target, error) {
	targets := make([]bench.Target, 0, len(specs))
	for _, spec := range specs {
		provider, modelID, found := strings.Cut(spec, ":")
		if !found || provider == "" || modelID == "" {
			return nil, fmt.Errorf("model %q is not in provider:modelID form", spec)
		}
		targets = append(targets, bench.Target{Provider: provider, ModelID: modelID})
	}
	return targets, nil
}

func init() {
	promptCmd.Flags().StringArrayVarP(&promptModels, "model", "m", nil, "model to prompt as provider:modelID (repeatable)")
	promptCmd.Flags().IntVar(&promptMaxPrompts, "max-prompts", 0, "limit the number of prompts forwarded per task (0 = all)")
	rootCmd.AddCommand(promptCmd)
}
