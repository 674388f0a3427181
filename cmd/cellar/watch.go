package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/cellar/pkg/adapters/lifecycle"
)

var watchQuiet time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes to the index file until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openRepository()
		if err != nil {
			fatal("Error opening repository", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		events, err := repo.Watch(ctx)
		if err != nil {
			fatal("Error watching index", err)
		}

		source := lifecycle.NewSource(events, lifecycle.WithQuietPeriod(watchQuiet))
		if err := source.Start(ctx); err != nil {
			fatal("Error starting event source", err)
		}

		fmt.Printf("Watching %s\n", repo.IndexPath())
		for e := range source.Events() {
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchQuiet, "quiet", 100*time.Millisecond, "Report a burst of changes once it has been quiet this long (0 reports every change)")
}
