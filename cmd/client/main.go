// Command brkcli is the command-line client of the BrainrotKeeper server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"BrainrotKeeper/internal/cli/commands"
	"BrainrotKeeper/internal/config"
)

// заполняются через -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion(os.Stdout, cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	os.Exit(code)
}

func printVersion(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "BrainrotKeeper CLI %s (built %s)\n", version, buildDate)
	fmt.Fprintf(w, "server: %s\ntoken file: %s\n", cfg.ServerURL, cfg.TokenFile)
}
