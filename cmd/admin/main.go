package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/venue-admin/internal/app"
	"github.com/nekogravitycat/venue-admin/internal/config"
	"github.com/nekogravitycat/venue-admin/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.IsProduction)

	container, err := app.NewContainer(app.Config{
		BackendURL:  cfg.BackendURL,
		StateDir:    cfg.StateDir,
		HTTPTimeout: cfg.HTTPTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	console := newConsole(container, os.Stdout)
	fmt.Printf("venue-admin console — backend %s (type 'help')\n", cfg.BackendURL)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if quit := console.Dispatch(ctx, scanner.Text()); quit {
			return
		}
		fmt.Print("> ")
	}
}
