package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().String("session", "", "Show every event of one session")
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	sessionID, _ := cmd.Flags().GetString("session")

	client := NewClient(serverURL)
	var (
		events *ListEventsResponse
		err    error
	)
	if sessionID != "" {
		events, err = client.SessionEvents(sessionID)
	} else {
		events, err = client.Events(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), events)
		return nil
	}
	printEventsHuman(cmd.OutOrStdout(), events, time.Now())
	return nil
}

func printEventsHuman(w io.Writer, events *ListEventsResponse, now time.Time) {
	if len(events.Items) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}

	fmt.Fprintf(w, "Recent Events (%d):\n\n", events.Total)
	fmt.Fprintf(w, "  %-12s %-20s %-38s %-15s\n", "TIME", "TYPE", "SESSION", "ENTITY")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 88))

	for _, e := range events.Items {
		t, _ := time.Parse(time.RFC3339, e.OccurredAt)
		entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
		fmt.Fprintf(w, "  %-12s %-20s %-38s %-15s\n", formatTimeAgo(t, now), e.EventType, e.SessionID, entity)
	}
}
