package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/bootstrap"
	"golang.org/x/sync/errgroup"
)

const (
	networkProtocol = "tcp"
	envFile         = ".env"
)

func main() {
	mainCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(mainCtx); err != nil {
		logging.StdoutLogger.Error("vending machine stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, zapLogger, err := logging.New(cfg.LogProduction)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	lis, err := net.Listen(networkProtocol, cfg.HttpPort)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HttpPort, err)
	}

	app := bootstrap.NewVendingApp(cfg, logger, zapLogger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Run(gCtx, lis)
	})
	g.Go(func() error {
		<-gCtx.Done()
		app.Shutdown()
		return nil
	})

	return g.Wait()
}
