package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peerbench/peerbench/internal/logging"
	"github.com/peerbench/peerbench/internal/output"
	"github.com/peerbench/peerbench/internal/task"
	"github.com/spf13/cobra"
)

// convertCmd normalizes task files of any recognized dialect into the
// canonical format. A bad file is logged and skipped so one file cannot
// abort the batch.
var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert task files into the canonical format",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		signer, err := buildSigner(cfg)
		if err != nil {
			return err
		}

		reader := task.NewReader()
		converted := 0
		for _, path := range args {
			t, formatUsed, err := reader.ReadFromFile(path)
			if err != nil {
				logging.L().WithError(err).Warnf("skipping %s", path)
				continue
			}

			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outPath, err := output.SaveEntity(t.Prompts, output.SaveOptions{
				Dir:    filepath.Join(cfg.OutputDir(), "tasks"),
				Prefix: "task-" + base,
				Suffix: outputTimestamp(),
				Format: output.FormatJSON,
				Signer: signer,
			})
			if err != nil {
				return err
			}
			logging.L().Infof("converted %s (%s, %d prompts) to %s", path, formatUsed, len(t.Prompts), outPath)
			converted++
		}

		if converted == 0 {
			return fmt.Errorf("no task files could be converted")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
