// Command gravity is a terminal client for the Gravity journaling
// server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohdsalimkhatib/Gravity/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/gravity/config.toml)")
	serverURL := flag.String("server", "", "server URL override")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx, app.Options{
		ConfigPath: *configPath,
		ServerURL:  *serverURL,
		LogLevel:   *logLevel,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "gravity: %v\n", err)
		os.Exit(1)
	}
}
