package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/api"
	"github.com/spigell/talent-matcher/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the talent matching HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talent-matcher server", zap.String("version", version))

	pipeline, closeStore, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the matching pipeline", zap.Error(err))
	}

	listen := ":8080"
	if config.Server != nil && config.Server.Listen != "" {
		listen = config.Server.Listen
	}

	if err := runServer(ctx, logger, pipeline, listen, closeStore); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "shutdown completed"))
}

// runServer serves until ctx is done and releases the store before returning.
func runServer(ctx context.Context, logger *zap.Logger, matcher api.Matcher, listen string, closeStore func()) error {
	defer closeStore()

	return api.NewServer(matcher, logger).ListenAndServe(ctx, listen)
}
