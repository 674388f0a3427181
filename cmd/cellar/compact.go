package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/cellar/pkg/cache"
)

var itemDuration time.Duration

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Evict expired items from a cache",
	Long: `Compact loads a cache index (from the user cache directory unless --dir
is given), removes every expired item and flushes the result.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := openCache(itemDuration)
		if err != nil {
			fatal("Error opening cache", err)
		}

		evicted := c.Compact()
		if err := c.Flush(); err != nil {
			fatal("Error flushing cache", err)
		}

		fmt.Printf("Evicted %d item(s), %d remaining\n", evicted, c.ItemCount())
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
	compactCmd.Flags().DurationVar(&itemDuration, "duration", cache.DefaultItemDuration, "Item duration granted to items stored without expiration")
}
