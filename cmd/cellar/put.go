package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/cellar/pkg/core"
	"github.com/aretw0/cellar/pkg/document"
)

var putCmd = &cobra.Command{
	Use:   "put [key] [fields]",
	Short: "Add or replace an item",
	Long: `Put stores an item under key and flushes the repository.
Fields are a JSON object, given as argument or on stdin. An "expiresAt"
field (RFC 3339) sets the item expiration:

  cellar put u1 '{"name": "Alice"}'
  echo '{"name": "Alice"}' | cellar put u1`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		var raw []byte
		if len(args) == 2 {
			raw = []byte(args[1])
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Error reading stdin", err)
			}
			raw = data
		}

		fields, err := parseFields(raw)
		if err != nil {
			fatal("Error parsing fields", err)
		}
		doc, err := newDocument(key, fields)
		if err != nil {
			fatal("Error parsing fields", err)
		}

		repo, err := openRepository()
		if err != nil {
			fatal("Error opening repository", err)
		}

		if err := repo.AddItem(doc); err != nil {
			fatal("Error adding item", err)
		}
		if err := repo.Flush(); err != nil {
			fatal("Error flushing repository", err)
		}

		fmt.Printf("Item saved: %s\n", key)
	},
}

func parseFields(raw []byte) (core.Record, error) {
	fields := core.Record{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("fields must be a JSON object: %w", err)
	}
	return fields, nil
}

// newDocument decodes fields like a stored record, so an expiration field
// becomes the document expiration instead of a plain field. The key
// argument wins over any key field.
func newDocument(key string, fields core.Record) (*document.Document, error) {
	conv := converter()
	field := conv.KeyField
	if field == "" {
		field = document.DefaultKeyField
	}
	if fields == nil {
		fields = core.Record{}
	}
	fields[field] = key
	return conv.FromRecord(fields)
}

func init() {
	rootCmd.AddCommand(putCmd)
}
