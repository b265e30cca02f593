package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/api"
	"github.com/jackzampolin/bookmark/internal/config"
	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/home"
	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Book tables of contents and reading progress for markdown notes",
	Long: `Bookmark fills reading notes with a book's table of contents and
keeps score of how far you have read.

It includes:
  - TOC lookup across Litres, Labirint, Open Library and Google Books
  - Book metadata rendered as YAML frontmatter
  - Reading progress from a checklist, by chapters, weight or pages
  - An HTTP API and an MCP server exposing the same operations`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bookmark/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bookmark home directory (default: ~/.bookmark)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format for api commands: yaml, json or text",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (default: log.level from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// app bundles what local commands need.
type app struct {
	home    *home.Dir
	config  *config.Manager
	logger  *slog.Logger
	sources *sources.Registry
}

// setup loads config and builds the logger and source registry.
// Logs go to logOut so stdout stays clean for command output.
func setup(logOut io.Writer) (*app, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := mgr.Get()

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: config.ParseLevel(level),
	}))

	reg := sources.NewRegistry()
	reg.SetLogger(logger)
	reg.Reload(cfg.ToRegistryConfig(), fetch.NewHTTPFetcher(cfg.FetchConfig(logger)))

	return &app{
		home:    h,
		config:  mgr,
		logger:  logger,
		sources: reg,
	}, nil
}
