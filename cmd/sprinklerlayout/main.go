// SprinklerLayout: ceiling sprinkler placement and pipe connection planner
//
// Computes sprinkler positions inside a polygonal room for one of several
// placement strategies, connects every sprinkler to its nearest supply pipe,
// and exports reports, drawings and installation tags.
//
// Build:
//   go build -o sprinklerlayout ./cmd/sprinklerlayout
//
// Release builds inject version information:
//   go build -ldflags "-X main.version=v1.0.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/sprinklerlayout

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/SprinklerLayout/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		cli.PrintError(err)
		os.Exit(1)
	}
}
