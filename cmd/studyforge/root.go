package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/api"
	"github.com/studyforge/studyforge/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "Turn PDF study documents into clean, quiz-ready text",
	Long: `StudyForge ingests PDF study documents and produces clean text for
quiz generation.

The pipeline includes:
  - Model-based page extraction with a strict page-marker contract
  - Heuristic page classification with batched AI escalation
  - Non-content filtering with over-filtering recovery
  - Local text cleanup (headers/footers, duplicates, boilerplate, language gate)
  - Effort-aware model routing with fallback chains and cost telemetry`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.studyforge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(processCmd)
}
