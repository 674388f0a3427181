package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/cellar/pkg/core"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items of a repository",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if listMatch != "" && !doublestar.ValidatePattern(listMatch) {
			fatal("Invalid pattern", fmt.Errorf("%q", listMatch))
		}

		repo, err := openRepository()
		if err != nil {
			fatal("Error opening repository", err)
		}

		conv := converter()
		var keys []string
		var records []core.Record
		for _, item := range repo.AllItems() {
			if listMatch != "" {
				if ok, _ := doublestar.Match(listMatch, item.Key()); !ok {
					continue
				}
			}
			rec, err := conv.ToRecord(item)
			if err != nil {
				fatal("Error converting item", err)
			}
			keys = append(keys, item.Key())
			records = append(records, rec)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if records == nil {
				records = []core.Record{}
			}
			if err := encoder.Encode(records); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, key := range keys {
			fmt.Println(key)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only list keys matching a glob pattern (e.g. 'user-*')")
}
