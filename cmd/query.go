package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/client"
	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/matching"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Send a request file to a running talent-matcher server",
	Run: func(cmd *cobra.Command, _ []string) {
		query(cmd)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addResultFlags(queryCmd)

	queryCmd.Flags().StringP("server", "s", "", "base URL of the server (default http://localhost:8080)")
	viper.BindPFlag("client.url", queryCmd.Flags().Lookup("server"))
}

func query(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	req, err := loadRequest(cmd.Flag("request").Value.String())
	if err != nil {
		logger.Fatal("loading the request", zap.Error(err))
	}

	url := viper.GetString("client.url")
	result, err := queryServer(ctx, client.New(url, logger), req)
	if err != nil {
		logger.Fatal("querying the server", zap.String("url", url), zap.Error(err))
	}

	if err := present(cmd, logger, req, result); err != nil {
		logger.Fatal("presenting the result", zap.Error(err))
	}
}

// queryServer checks the health endpoint first so an unreachable server is
// reported as such rather than as a failed match.
func queryServer(ctx context.Context, c *client.Client, req matching.Request) (*matching.Result, error) {
	if err := c.Health(ctx); err != nil {
		return nil, fmt.Errorf("server not reachable at %s: %w", c.BaseURL, err)
	}

	return c.FindMatches(ctx, req)
}
