package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show regrabd status",
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	status, err := NewClient(serverURL).Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), status)
		return nil
	}
	printStatusHuman(cmd.OutOrStdout(), serverURL, status)
	return nil
}

func printStatusHuman(w io.Writer, server string, s *StatusResponse) {
	fmt.Fprintf(w, "Server:     %s (%s)\n", server, s.Status)
	fmt.Fprintf(w, "Version:    %s\n", s.Version)
	fmt.Fprintf(w, "Sessions:   %d active\n", s.Sessions)

	names := make([]string, 0, len(s.Backends))
	for name := range s.Backends {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		state := "not configured"
		if s.Backends[name] {
			state = "configured"
		}
		fmt.Fprintf(w, "%-11s %s\n", name+":", state)
	}
}
