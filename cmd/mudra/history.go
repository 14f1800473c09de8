package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent triggers and their outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg := config.Load()
		if cmd.Flags().Changed("db") {
			cfg.DBPath, _ = cmd.Flags().GetString("db")
		}

		dbPath, err := cfg.ResolveDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve journal path: %v", err)
		}
		st, err := store.New(dbPath)
		if err != nil {
			log.Fatalf("Failed to open journal: %v", err)
		}
		defer st.Close()

		entries, err := st.Triggers().History(limit)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		if len(entries) == 0 {
			fmt.Println("No triggers recorded yet.")
			return
		}

		for _, e := range entries {
			outcome := string(e.Outcome)
			if outcome == "" {
				outcome = "-"
			}
			line := fmt.Sprintf("%s  %d finger(s)  %-16s %s",
				e.AcceptedAt.Format("2006-01-02 15:04:05"), e.FingerCount, e.ActionName, outcome)
			if e.Detail != "" {
				line += "  (" + e.Detail + ")"
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "Maximum number of entries to show")
	historyCmd.Flags().String("db", "", "Journal database path (overrides MUDRA_DB_PATH)")
}
