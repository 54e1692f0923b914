// Package command implements the HTTP command API exposing alarm CRUD.
package command

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/clockrobustus/clockd/internal/broadcast"
	"github.com/clockrobustus/clockd/internal/log"
	"github.com/clockrobustus/clockd/internal/store"
	"github.com/clockrobustus/clockd/pkg/config"
)

// Controller represents the command API controller
type Controller struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	cfg         config.CommandAPIData
	store       *store.Store
	broadcaster *broadcast.Broadcaster
	Server      http.Server
	logger      *zap.SugaredLogger
	handlers    *Handlers
	startedAt   time.Time
}

// NewController creates a new command API controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg config.CommandAPIData, s *store.Store, b *broadcast.Broadcaster, logger *zap.SugaredLogger) *Controller {
	ctrl := &Controller{
		ctx:         ctx,
		wg:          wg,
		cfg:         cfg,
		store:       s,
		broadcaster: b,
		logger:      logger,
		startedAt:   time.Now(),
	}

	if ctrl.cfg.Port == 0 {
		logger.Info("command API port not specified; defaulting to 8081")
		ctrl.cfg.Port = 8081
	}
	if ctrl.cfg.ListenAddr == "" {
		logger.Info("command API listen-addr not provided; defaulting to 127.0.0.1 (localhost only)")
		ctrl.cfg.ListenAddr = "127.0.0.1"
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.cfg.ListenAddr, ctrl.cfg.Port)
	ctrl.Server.Handler = router

	return ctrl
}

// StartController starts the command API server
func (c *Controller) StartController() error {
	log.Info("Starting command API controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("Command API server starting on %s", c.Server.Addr)

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("Command API server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the command API server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() http.Handler {
	router := mux.NewRouter()
	router.Use(c.loggingMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", c.handlers.GetStatus).Methods("GET")
	api.HandleFunc("/alarms", c.handlers.GetAlarms).Methods("GET")
	api.HandleFunc("/alarms", c.handlers.UpsertAlarm).Methods("PUT")
	api.HandleFunc("/alarms/{id:[0-9]+}", c.handlers.DeleteAlarm).Methods("DELETE")

	// Display clients run on a different origin than the daemon.
	return handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
}

// loggingMiddleware logs each request at debug level
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		c.logger.Debugf("%s %s from %s took %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}
