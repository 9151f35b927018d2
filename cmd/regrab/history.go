package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/regrabarr/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent regrabs",
	Long: `Show recent regrab outcomes.

By default the history is read from regrabd. With --local it is read from
the database named in the config file.`,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().String("kind", "", "Filter by kind (movie, series)")
	historyCmd.Flags().String("status", "", "Filter by status (success, failed)")
	historyCmd.Flags().Bool("local", false, "Read the local database instead of regrabd")
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	kind, _ := cmd.Flags().GetString("kind")
	status, _ := cmd.Flags().GetString("status")
	local, _ := cmd.Flags().GetBool("local")

	var items []HistoryEntry
	if local {
		app, cleanup, err := openApp(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer cleanup()
		entries, err := app.History.List(cmd.Context(), history.Filter{Kind: kind, Status: status, Limit: limit})
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		for _, e := range entries {
			items = append(items, HistoryEntry{
				ID: e.ID, SessionID: e.SessionID, Kind: e.Kind, Target: e.Target,
				Status: e.Status, Stage: e.Stage, Message: e.Message, Error: e.Error,
				Uncertain: e.Uncertain, CreatedAt: e.CreatedAt,
			})
		}
	} else {
		resp, err := NewClient(serverURL).History(limit, kind, status)
		if err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
		items = resp.Items
	}

	if jsonOutput {
		if items == nil {
			items = []HistoryEntry{}
		}
		printJSON(cmd.OutOrStdout(), items)
		return nil
	}
	printHistoryHuman(cmd.OutOrStdout(), items, time.Now())
	return nil
}

func printHistoryHuman(w io.Writer, items []HistoryEntry, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No regrabs recorded")
		return
	}

	fmt.Fprintf(w, "Recent Regrabs (%d):\n\n", len(items))
	fmt.Fprintf(w, "  %-10s %-7s %-8s %-40s %s\n", "TIME", "KIND", "STATUS", "TARGET", "DETAIL")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
	for _, e := range items {
		detail := e.Message
		if e.Status == history.StatusFailed && e.Stage != "" {
			detail = "failed at " + e.Stage
			if e.Uncertain {
				detail += " (result uncertain)"
			}
		}
		fmt.Fprintf(w, "  %-10s %-7s %-8s %-40s %s\n",
			formatTimeAgo(e.CreatedAt, now), e.Kind, e.Status, truncate(e.Target, 40), truncate(detail, 60))
	}
}
