// Command retail is the command-line front end of the ordering core.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rakeshthota234/Online-Retail-Application/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}

	// Errors already reported through the output formatter carry an ExitError;
	// anything else (flag parsing, unknown commands) is printed here.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(cli.ExitCommandError)
	}
	if exitErr.Err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
	}
	stop()
	os.Exit(exitErr.Code)
}
