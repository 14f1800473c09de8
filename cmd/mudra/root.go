package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Mudra maps held finger counts to cloud operations",
	Long: `Mudra watches a webcam for hand gestures and runs the cloud operation
bound to each finger count: hold one finger steady to list instances,
two to start one, three to stop one, four to list buckets, five to
create a bucket. Mutating operations always ask for confirmation on
the terminal before any remote call is made.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
