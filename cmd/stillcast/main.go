// Package main is the entrypoint of stillcast.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stillcast/internal/app"
	"stillcast/internal/cfg"
	"stillcast/internal/config"
	"stillcast/internal/utils/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer cancel()

	dataDir, err := config.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stillcast exiting with error: %v\n", err)
		os.Exit(1)
	}
	if err := logging.SetupLogging(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "stillcast exiting with error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.InitCommands(); err != nil {
		logging.E("Error initializing commands: %v", err)
		os.Exit(1)
	}
	if err := cfg.Execute(); err != nil {
		logging.E("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.I("Interrupted, shutting down")
			return
		}
		logging.E("%v", err)
		os.Exit(1)
	}
}
