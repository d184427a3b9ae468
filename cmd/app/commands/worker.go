package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mysillydreams/catalog-core/internal/app"
	"github.com/mysillydreams/catalog-core/internal/config"
)

// RunWorker starts the outbox relay worker. The relay polls pending outbox
// events, publishes them to the broker and sweeps delivered events past the
// retention window. Blocks until receiving SIGINT/SIGTERM or encountering a
// fatal error.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting outbox relay worker", slog.String("version", version))

	defer closeContainer(container, logger)

	relay, err := container.OutboxRelay()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox relay: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return relay.Start(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox relay error: %w", err)
	}

	logger.Info("outbox relay worker stopped")
	return nil
}
