package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/honeynil/player-service/internal/config"
)

var envFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "player-service",
		Short:        "REST service for player records",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to an env file (default .env)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTokenCmd())
	return rootCmd
}

func loadConfig() *config.Config {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
