package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talent-matcher/internal/ranking"
	"github.com/spigell/talent-matcher/internal/store"
)

const (
	app = "talent-matcher"
)

type Config struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Client    *ClientConfig    `mapstructure:"client"`
	Store     *StoreConfig     `mapstructure:"store"`
	Ranking   *RankingConfig   `mapstructure:"ranking"`
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type ClientConfig struct {
	URL string `mapstructure:"url"`
}

type StoreConfig struct {
	Driver   string          `mapstructure:"driver"`
	File     string          `mapstructure:"file"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSNFile string `mapstructure:"dsn-file"`
}

type RankingConfig struct {
	// Pointers keep an explicit 0 apart from an unset key.
	RelevanceThreshold *float64      `mapstructure:"relevance-threshold"`
	FallbackStrength   *float64      `mapstructure:"fallback-strength"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type EmbeddingConfig struct {
	Provider   string       `mapstructure:"provider"`
	Model      string       `mapstructure:"model"`
	APIKeyFile string       `mapstructure:"api-key-file"`
	BaseURL    string       `mapstructure:"base-url"`
	Dimensions int          `mapstructure:"dimensions"`
	Cache      *CacheConfig `mapstructure:"cache"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-matcher ranks candidate profiles against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embedding.api-key-file", "EMBEDDING_API_KEY_FILE"); err != nil {
		log.Fatalf("binding EMBEDDING_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("store.postgres.dsn-file", "TALENT_PG_DSN_FILE"); err != nil {
		log.Fatalf("binding TALENT_PG_DSN_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("client.url", "http://localhost:8080")
	viper.SetDefault("store.driver", store.DriverFile)
	viper.SetDefault("store.file", "candidates.json")
	viper.SetDefault("ranking.relevance-threshold", ranking.DefaultRelevanceThreshold)
	viper.SetDefault("ranking.fallback-strength", ranking.DefaultFallbackStrength)
	viper.SetDefault("ranking.timeout", 30*time.Second)
	viper.SetDefault("embedding.provider", "gemini")
	viper.SetDefault("embedding.cache.enabled", true)
	viper.SetDefault("embedding.cache.ttl", time.Hour)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// Without an explicit --config the defaults are enough to start.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
