package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "regrab",
	Short: "Replace a bad movie or episode download",
	Long: `regrab - replace a bad movie or episode download

Finds a title in Radarr or Sonarr, deletes the file on disk and asks the
backend to grab it again. Sessions run locally against the configured
backends; status, history and events can also be read from a running
regrabd.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "regrabd URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("regrab {{.Version}}\n")
}
