package managers

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/clockrobustus/clockd/internal/broadcast"
	"github.com/clockrobustus/clockd/internal/controllers/command"
	"github.com/clockrobustus/clockd/internal/store"
	"github.com/clockrobustus/clockd/pkg/config"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for the daemon's
// network-facing controllers
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager holding the broadcast
// server and the command API controller
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, cfg *config.Data, s *store.Store, b *broadcast.Broadcaster, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:    ctx,
		wg:     wg,
		cfg:    cfg,
		logger: logger,
	}

	cm.controllers = append(cm.controllers,
		broadcast.NewServer(ctx, wg, cfg.BroadcastAddr(), b, logger),
		command.NewController(ctx, wg, cfg.CommandAPI, s, b, logger),
	)

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	cfg         *config.Data
	logger      *zap.SugaredLogger
	controllers []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		if err := controller.StartController(); err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}
