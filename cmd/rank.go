package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/api"
	"github.com/spigell/talent-matcher/internal/export"
	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/matching"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates for a request file using the local store",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	addResultFlags(rankCmd)
}

// addResultFlags registers the flags shared by commands printing a ranking.
func addResultFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("request", "r", "", "JSON file with the matching request (required)")
	cmd.Flags().StringP("export", "x", "", "write an xlsx report to the given path")
	cmd.Flags().BoolP("feedback", "f", false, "collect relevance feedback interactively")
	cmd.Flags().String("feedback-file", "", "JSON object mapping candidate ids to relevance (true/false)")
	cmd.MarkFlagRequired("request")
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	req, err := loadRequest(cmd.Flag("request").Value.String())
	if err != nil {
		logger.Fatal("loading the request", zap.Error(err))
	}

	pipeline, closeStore, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the matching pipeline", zap.Error(err))
	}

	if err := runRank(ctx, cmd, logger, pipeline, req, closeStore); err != nil {
		logger.Fatal("ranking candidates", zap.Error(err))
	}
}

// runRank releases the store before returning, so callers may exit right after.
func runRank(ctx context.Context, cmd *cobra.Command, logger *zap.Logger, matcher api.Matcher, req matching.Request, closeStore func()) error {
	defer closeStore()

	result, err := matcher.Match(ctx, req)
	if err != nil {
		return fmt.Errorf("matching candidates: %w", err)
	}

	if err := present(cmd, logger, req, result); err != nil {
		return fmt.Errorf("presenting the result: %w", err)
	}

	return nil
}

func loadRequest(path string) (matching.Request, error) {
	var req matching.Request

	data, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode request %q: %w", path, err)
	}

	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("invalid request %q: %w", path, err)
	}

	return req, nil
}

// present prints the result and runs the optional export and feedback steps.
func present(cmd *cobra.Command, logger *zap.Logger, req matching.Request, result *matching.Result) error {
	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	logger.Info("ranking completed",
		zap.Int("candidates", len(result.Candidates)),
		zap.String("method", string(result.Method)),
		zap.Float64("precision", result.Metrics.Precision),
		zap.Float64("ndcg", result.Metrics.NDCG),
	)

	if path := cmd.Flag("export").Value.String(); path != "" {
		if err := export.ExportToExcel(result, req.JobDescription, path); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.Info("report exported", zap.String("path", path))
	}

	feedback, err := gatherFeedback(cmd, result.Candidates)
	if err != nil {
		return fmt.Errorf("feedback: %w", err)
	}
	if feedback != nil {
		reportFeedback(logger, result.Candidates, feedback)
	}

	return nil
}

func printJSON(w io.Writer, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}
