package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print an item as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openRepository()
		if err != nil {
			fatal("Error opening repository", err)
		}

		item, ok := repo.ItemForKey(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Item not found: %s\n", args[0])
			os.Exit(1)
		}

		rec, err := converter().ToRecord(item)
		if err != nil {
			fatal("Error converting item", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rec); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
