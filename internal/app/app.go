// Package app wires the daemon together: the alarm store, the broadcaster,
// the tick driver, and the network controllers.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/clockrobustus/clockd/internal/broadcast"
	"github.com/clockrobustus/clockd/internal/log"
	"github.com/clockrobustus/clockd/internal/managers"
	"github.com/clockrobustus/clockd/internal/store"
	"github.com/clockrobustus/clockd/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.Data
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.Data, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Open the alarm store
	s, err := store.Open(a.cfg.Database.Path)
	if err != nil {
		return err
	}
	defer s.Close()
	a.logger.Infof("Alarm store opened at %s", a.cfg.Database.Path)

	broadcaster := broadcast.New()

	// Initialize the tick driver
	driver := managers.NewTickDriver(ctx, &wg, a.cfg.TickInterval(), s, broadcaster, a.logger)
	if err := driver.StartTickDriver(); err != nil {
		return err
	}

	// Initialize the controller manager
	cm, err := managers.NewControllerManager(ctx, &wg, a.cfg, s, broadcaster, a.logger)
	if err != nil {
		return err
	}
	if err := cm.StartControllers(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
