// Package cmd implements the command-line interface for bankcrawl.
// It provides the root command and subcommands for running and managing
// news crawls.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finradar/bankcrawl/cmd/crawl"
	"github.com/finradar/bankcrawl/cmd/schedule"
	cmdsources "github.com/finradar/bankcrawl/cmd/sources"
	"github.com/finradar/bankcrawl/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "bankcrawl",
		Short: "A crawler for banking and fintech news",
		Long: `bankcrawl harvests banking and fintech news articles from configured
news portals, filters them to a recency window, and emits structured
records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to Viper.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bankcrawl version %s\n", version)
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(schedule.Command())
	rootCmd.AddCommand(cmdsources.Command())
}

// initConfig reads the config file and environment variables into Viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetEnvPrefix("BANKCRAWL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	// The config file is optional; defaults and environment variables
	// cover the rest.
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if debug || os.Getenv("BANKCRAWL_DEBUG") == "true" {
		viper.Set("logging.level", "debug")
	}

	return nil
}
