// Command raidctl is the operator CLI for the raid sign-up bot. It runs
// commands through the same dispatcher the bot uses, without Discord.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/raidsign/internal/app"
	"github.com/forgo/raidsign/internal/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	driver     string
	timeout    time.Duration
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "raidctl",
	Short:         "Operate the raid sign-up bot from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return app.SetupLogging(config.LogConfig{Level: level, Format: "text"})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the raidctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "raidctl %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set "+config.FileEnv+")")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Override DB_DRIVER (surrealdb or memory)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(raidsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig applies the persistent flags over config.Load
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if err := os.Setenv(config.FileEnv, configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openApp loads config and wires the app without touching the schema
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	// Operator commands come from no guild and carry no message id
	cfg.Bot.AllowedGuilds = nil
	cfg.Bot.DedupeTTL = 0
	return app.New(ctx, cfg, app.Options{SkipMigrations: true})
}
