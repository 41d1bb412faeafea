package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"stock-analyst/internal/cli"
	"stock-analyst/internal/config"
	"stock-analyst/internal/logging"
)

func main() {
	// A local .env can carry API keys during development; a missing file
	// is not an error.
	_ = godotenv.Load()

	configDir := config.DefaultConfigDir()
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configDir = os.Args[i+1]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
