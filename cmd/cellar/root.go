package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	baseDir  string
	repoName string
	repoID   string
	format   string
	keyField string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cellar",
	Short: "Inspect and edit Cellar index files",
	Long: `Cellar keeps keyed items in a single index file per repository.
This tool loads an index, applies one operation and flushes it back.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Base storage directory (defaults to the user config or cache directory)")
	rootCmd.PersistentFlags().StringVar(&repoName, "name", "Document", "Repository name")
	rootCmd.PersistentFlags().StringVar(&repoID, "id", "Default", "Repository identifier")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "Index format (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&keyField, "key-field", "key", "Record field holding the item key")
}
