package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errorString returns err's message or "" for nil, for JSON payloads.
func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
