// Command kiwidb runs the RESP-compatible in-memory key/value server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nobletooth/kiwidb/pkg/clock"
	"github.com/nobletooth/kiwidb/pkg/config"
	"github.com/nobletooth/kiwidb/pkg/engine"
	"github.com/nobletooth/kiwidb/pkg/port"
	"github.com/nobletooth/kiwidb/pkg/store"
	"github.com/nobletooth/kiwidb/pkg/utils"
)

var printVersion = flag.Bool("print_version", false, "Print build version information and exit.")

func main() {
	config.InitFlags()
	utils.InitLogging()

	if *printVersion {
		slog.Info("kiwidb", "version", utils.Version, "commit", utils.Commit, "buildTime", utils.BuildTime)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	realClock := clock.New()
	e := engine.New(store.New(realClock), realClock)

	if err := port.RunRedisServer(ctx, *config.Address, e); err != nil {
		slog.Error("Server exited with an error.", "error", err)
		os.Exit(1)
	}
}
