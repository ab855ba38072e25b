package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/peerbench/peerbench/internal/aggregate"
	"github.com/peerbench/peerbench/internal/logging"
	"github.com/peerbench/peerbench/internal/output"
	"github.com/peerbench/peerbench/internal/task"
	"github.com/spf13/cobra"
)

var aggregateByTask bool

// aggregateCmd merges score files from any number of runs into one ranked
// result table. Unreadable files are logged and skipped; an entirely empty
// input set is an error rather than an empty table.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate [score files...]",
	Short: "Aggregate score files into a ranked result table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		signer, err := buildSigner(cfg)
		if err != nil {
			return err
		}

		var scores []task.PromptScore
		for _, path := range args {
			batch, err := readScoreFile(path)
			if err != nil {
				logging.L().WithError(err).Warnf("score file %s couldn't be read", path)
				continue
			}
			scores = append(scores, batch...)
		}

		result, err := aggregate.Aggregate(scores, aggregate.Options{ByTask: aggregateByTask})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), aggregate.RenderLeaderboard(result))

		outPath, err := output.SaveEntity(result.Results, output.SaveOptions{
			Dir:    cfg.OutputDir(),
			Prefix: "aggregation",
			Suffix: outputTimestamp(),
			Format: output.Format(cfg.OutputFormat()),
			Signer: signer,
		})
		if err != nil {
			return err
		}
		logging.L().Infof("aggregation saved to %s", outPath)
		return nil
	},
}

func readScoreFile(path string) ([]task.PromptScore, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scores []task.PromptScore
	if err := json.Unmarshal(content, &scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return scores, nil
}

func init() {
	aggregateCmd.Flags().BoolVar(&aggregateByTask, "by-task", false, "group results by (provider, model, task) instead of (provider, model)")
	rootCmd.AddCommand(aggregateCmd)
}
