package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	apiURL   string
	apiToken string
	dbPath   string
	redisURL string
	logLevel string
	watchDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evidence-console",
	Short: "Terminal-first evidence investigation workspace",
	Long: `Evidence Console is a terminal client for an evidence analysis backend.
It opens an investigation workspace per case: a retrieval-augmented chat over
the uploaded evidence, a browsable evidence directory, and a source viewer
for the footage behind every answer.

Features:
- Chat workspace with citations into the underlying footage
- Evidence browsing, upload, and deletion per media type
- Drop-folder ingestion for bulk camera exports
- Redis Streams case-activity feed for companion tools
- SQLite-backed local cache for offline rendering`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.evidence-console.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8000", "Evidence backend base URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token for the backend (or EVIDENCE_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/evidence-console.db", "SQLite cache path")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "Redis URL for the activity stream (empty disables)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&watchDir, "watch-dir", "./data/incoming", "Drop folder for evidence ingestion")

	// Bind flags to viper
	viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("api.token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("watch.dir", rootCmd.PersistentFlags().Lookup("watch-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Local .env files hold the backend token during development
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".evidence-console")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Set defaults
	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("database.path", "./data/evidence-console.db")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("watch.dir", "./data/incoming")

	// Token commonly comes from the environment rather than flags
	if viper.GetString("api.token") == "" {
		if tok := os.Getenv("EVIDENCE_API_TOKEN"); tok != "" {
			viper.Set("api.token", tok)
		}
	}
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: viper.GetString("api.base_url"),
			Token:   viper.GetString("api.token"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("redis.url"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
		Watch: WatchConfig{
			Dir: viper.GetString("watch.dir"),
		},
	}
}

// Config represents the application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type WatchConfig struct {
	Dir string `mapstructure:"dir"`
}
