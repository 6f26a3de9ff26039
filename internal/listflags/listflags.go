// Package listflags holds flags shared by the listing commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds --all, which includes completed tasks.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().BoolP("all", "a", false, "Include completed tasks")
		return
	}

	cmd.Flags().BoolVarP(target, "all", "a", false, "Include completed tasks")
}

// AddJSONFlag adds --json, which switches output to indented JSON.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("json", false, "Output as JSON")
		return
	}

	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}
