package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Remove an item and flush the repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		repo, err := openRepository()
		if err != nil {
			fatal("Error opening repository", err)
		}

		if !repo.HasItemWithKey(key) {
			fmt.Fprintf(os.Stderr, "Item not found: %s\n", key)
			os.Exit(1)
		}

		repo.RemoveItemWithKey(key)
		if err := repo.Flush(); err != nil {
			fatal("Error flushing repository", err)
		}

		fmt.Printf("Item deleted: %s\n", key)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
