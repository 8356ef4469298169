// Package main is the entrypoint of ytdl.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"ytdl/internal/cfg"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/paths"
	logging "ytdl/internal/utils/logging"
)

// main is the main entrypoint of the program.
func main() {
	os.Exit(run())
}

func run() int {
	startTime := time.Now()

	if err := paths.InitProgFilesDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "ytdl exiting with error: %v\n", err)
		return consts.ExitError
	}

	// Setup logging
	if err := logging.SetupLogging(paths.LogFilePath); err != nil {
		fmt.Fprintf(os.Stderr, "\nNotice: Log file was not created\nReason: %v\n\n", err)
	}
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}()

	// create cancellable context for shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cfg.InitCommands(); err != nil {
		logging.E("Error initializing commands: %v", err)
		return consts.ExitError
	}

	logging.D(1, "ytdl %s started at: %v", consts.Version, startTime.Format("2006-01-02 15:04:05.00 MST"))

	if err := cfg.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.I("Interrupted")
			return consts.ExitOK
		}
		logging.E("%v", err)
		return consts.ExitError
	}

	logging.D(1, "Time elapsed: %.2f seconds", time.Since(startTime).Seconds())
	return consts.ExitOK
}
