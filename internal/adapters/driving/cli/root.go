// Package cli implements the cobra command tree for Gistgrep.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gistgrep/internal/config"
	"github.com/custodia-labs/gistgrep/internal/connectors/github"
	"github.com/custodia-labs/gistgrep/internal/core/ports/driving"
	"github.com/custodia-labs/gistgrep/internal/core/services"
	"github.com/custodia-labs/gistgrep/internal/logger"
	"github.com/custodia-labs/gistgrep/internal/sniff"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	logLevel   string

	cfg           *config.Config
	searchService driving.GistSearchService
)

var rootCmd = &cobra.Command{
	Use:   "gistgrep",
	Short: "Search a GitHub user's public gists for a pattern",
	Long: `Gistgrep answers which of a GitHub user's public gists contain a
pattern in their file contents. It lists the user's gists, fetches every
file's raw content under a bounded concurrency cap, skips binary files and
matches the rest against the pattern.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initServices()
	},
}

// initServices loads configuration and wires the search pipeline.
func initServices() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger.Init(cfg.LogLevel, true)

	client, err := github.NewClient(cfg.Upstream.BaseURL)
	if err != nil {
		return fmt.Errorf("create upstream client: %w", err)
	}

	searchService = services.NewGistSearch(
		github.NewLister(client, cfg.Upstream.MaxRetries),
		github.NewFetcher(cfg.Upstream.FetchTimeout.Std()),
		sniff.New(cfg.Search.SniffLen, 0),
		cfg.Search.Concurrency,
	)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
