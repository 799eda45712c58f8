// Command postfeed browses a paginated posts API in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/postfeed/internal/cli"
	"github.com/rshade/postfeed/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return exitCode(root.ExecuteContext(ctx))
}

// exitCode maps a command error to a process exit code. Cobra has already
// printed the error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
