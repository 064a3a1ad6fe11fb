// Command paramgrid queries, adjusts and densifies labeled parameter
// documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hupe1980/paramgrid/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if cli.ShouldPrint(err) {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
