package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireFlags fails when any of the named string flags is empty.
func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []error
	for _, name := range names {
		if v, _ := cmd.Flags().GetString(name); v == "" {
			missing = append(missing, fmt.Errorf("--%s is required", name))
		}
	}
	return errors.Join(missing...)
}
