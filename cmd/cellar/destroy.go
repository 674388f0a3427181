package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Delete the index file of a repository",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openRepository()
		if err != nil {
			fatal("Error opening repository", err)
		}

		if err := repo.Destroy(); err != nil {
			fatal("Error destroying repository", err)
		}

		fmt.Printf("Index removed: %s\n", repo.IndexPath())
	},
}

func init() {
	rootCmd.AddCommand(destroyCmd)
}
