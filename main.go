// Package main is the entry point for the Argus detection service.
package main

import (
	"context"
	"fmt"
	"os"

	"argus/bootstrap"
	"argus/cmd"
)

// run initializes and starts the detection service
func run() error {
	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		app.Shutdown()
		return fmt.Errorf("failed to start application: %w", err)
	}

	app.WaitForShutdown()
	app.Shutdown()
	return nil
}

// main dispatches between the replay CLI and the long-running service
func main() {
	if len(os.Args) > 1 && os.Args[1] == "replay" {
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)

		replayCmd := cmd.NewReplayCmd()
		if err := replayCmd.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
