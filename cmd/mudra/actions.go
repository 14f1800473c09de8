package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/action"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Print the finger-count bindings",
	Run: func(cmd *cobra.Command, args []string) {
		registry := action.NewRegistry(action.RegistryConfig{})
		printBindings(os.Stdout, registry.Bindings())
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}

// printBindings writes the count-to-action table.
func printBindings(w io.Writer, bindings []action.Binding) {
	fmt.Fprintln(w, "Finger bindings:")
	for _, b := range bindings {
		mark := ""
		if b.Mutating {
			mark = " (asks for confirmation)"
		}
		fmt.Fprintf(w, "  %d  %s%s\n", b.Count, b.Action, mark)
	}
}
