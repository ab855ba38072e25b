package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peerbench/peerbench/internal/logging"
	"github.com/peerbench/peerbench/internal/output"
	"github.com/peerbench/peerbench/internal/scoring"
	"github.com/peerbench/peerbench/internal/task"
	"github.com/spf13/cobra"
)

var scorePromptType string

// scoreCmd scores response files and writes both the full score files and
// the compact no-data variants, grouped per model.
var scoreCmd = &cobra.Command{
	Use:   "score [response files...]",
	Short: "Score response files against their prompts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		signer, err := buildSigner(cfg)
		if err != nil {
			return err
		}
		scorer, err := scoring.ForType(scorePromptType)
		if err != nil {
			return err
		}

		var responses []task.PromptResponse
		for _, path := range args {
			batch, err := readResponseFile(path)
			if err != nil {
				logging.L().WithError(err).Warnf("skipping %s", path)
				continue
			}
			responses = append(responses, batch...)
		}
		if len(responses) == 0 {
			return fmt.Errorf("no responses read from the given files")
		}

		scores, err := scoring.Score(responses, scorer)
		if err != nil {
			return err
		}

		timestamp := outputTimestamp()
		outFormat := output.Format(cfg.OutputFormat())
		total := 0
		for dir, group := range groupScores(scores) {
			base := filepath.Join(cfg.OutputDir(), "scores", dir)
			fullPath, err := output.SaveEntity(group, output.SaveOptions{
				Dir:    base,
				Prefix: "scores",
				Suffix: timestamp,
				Format: outFormat,
				Signer: signer,
			})
			if err != nil {
				return err
			}
			noDataPath, err := output.SaveEntity(scoring.StripData(group), output.SaveOptions{
				Dir:    base,
				Prefix: "scores.nodata",
				Suffix: timestamp,
				Format: outFormat,
				Signer: signer,
			})
			if err != nil {
				return err
			}
			logging.L().Infof("scores saved to %s (no-data: %s)", fullPath, noDataPath)
			total += 2
		}
		logging.L().Infof("%d score files created", total)
		return nil
	},
}

func readResponseFile(path string) ([]task.PromptResponse, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var responses []task.PromptResponse
	if err := json.Unmarshal(content, &responses); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	return responses, nil
}

// groupScores buckets scores into per-model directories:
// <task file>/<model owner>/<model name>.
func groupScores(scores []task.PromptScore) map[string][]task.PromptScore {
	groups := make(map[string][]task.PromptScore)
	for _, s := range scores {
		taskName := s.SourceTaskFile.FileName
		if taskName == "" {
			taskName = "unknown-source"
		}
		taskName = strings.TrimSuffix(taskName, filepath.Ext(taskName))
		dir := filepath.Join(sanitizePathPart(taskName), sanitizePathPart(s.ModelOwner), sanitizePathPart(s.ModelName))
		groups[dir] = append(groups[dir], s)
	}
	return groups
}

var pathPartReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")

func sanitizePathPart(part string) string {
	if part == "" {
		return "unknown"
	}
	return pathPartReplacer.Replace(part)
}

func init() {
	scoreCmd.Flags().StringVarP(&scorePromptType, "type", "t", task.TypeMultipleChoice, "prompt type of the scored task")
	rootCmd.AddCommand(scoreCmd)
}
