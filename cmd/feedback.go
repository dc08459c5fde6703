package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/ranking"
)

const (
	PromptRelevant    = "Relevant"
	PromptNotRelevant = "Not relevant"
	PromptSkip        = "Skip"
	PromptDone        = "Done"
)

// gatherFeedback returns nil when no feedback source was requested.
func gatherFeedback(cmd *cobra.Command, ranked []ranking.Scored) (map[string]bool, error) {
	if path := cmd.Flag("feedback-file").Value.String(); path != "" {
		return loadFeedback(path)
	}

	if cmd.Flag("feedback").Value.String() == "true" {
		return collectFeedback(ranked)
	}

	return nil, nil
}

func loadFeedback(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	feedback := map[string]bool{}
	if err := json.Unmarshal(data, &feedback); err != nil {
		return nil, fmt.Errorf("decode feedback %q: %w", path, err)
	}

	return feedback, nil
}

// collectFeedback asks about every ranked candidate in order until Done.
func collectFeedback(ranked []ranking.Scored) (map[string]bool, error) {
	feedback := make(map[string]bool)

	for i, s := range ranked {
		prompt := promptui.Select{
			Label: feedbackLabel(i, s),
			Items: []string{PromptRelevant, PromptNotRelevant, PromptSkip, PromptDone},
		}

		_, answer, err := prompt.Run()
		if err != nil {
			return nil, err
		}

		switch answer {
		case PromptRelevant:
			feedback[s.ID] = true
		case PromptNotRelevant:
			feedback[s.ID] = false
		case PromptDone:
			return feedback, nil
		}
	}

	return feedback, nil
}

func feedbackLabel(rank int, s ranking.Scored) string {
	title := ""
	if s.CurrentTitle != nil {
		title = " / " + *s.CurrentTitle
	}
	return fmt.Sprintf("#%d %s%s (score %.3f). Is this candidate relevant?", rank+1, s.FullName, title, s.Score)
}

func reportFeedback(logger *zap.Logger, ranked []ranking.Scored, feedback map[string]bool) {
	metrics, ok := ranking.FeedbackMetrics(ranked, feedback)
	if !ok {
		logger.Info("feedback metrics", zap.String("status", "awaiting feedback"))
		return
	}

	judged := 0
	for _, s := range ranked {
		if _, ok := feedback[s.ID]; ok {
			judged++
		}
	}

	logger.Info("feedback metrics",
		zap.Int("judged", judged),
		zap.Float64("precision", metrics.Precision),
		zap.Float64("ndcg", metrics.NDCG),
	)
}
