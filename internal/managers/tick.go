// Package managers orchestrates the daemon's long-running components: the
// tick driver that samples the wall clock once per interval, and the
// controllers that expose the daemon over the network.
package managers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clockrobustus/clockd/internal/broadcast"
	"github.com/clockrobustus/clockd/internal/matcher"
	"github.com/clockrobustus/clockd/internal/sampler"
	"github.com/clockrobustus/clockd/internal/store"
	"github.com/clockrobustus/clockd/internal/types"
)

// TickDriver samples the wall clock on a fixed cadence, publishes the
// resulting clock message, and fires alarm messages for any alarms matching
// the sampled instant.
type TickDriver struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	interval    time.Duration
	store       *store.Store
	matcher     *matcher.Matcher
	broadcaster *broadcast.Broadcaster
	logger      *zap.SugaredLogger

	// now is swappable so tests can drive the loop with synthetic instants.
	now func() time.Time
}

// NewTickDriver creates a tick driver publishing into b every interval.
func NewTickDriver(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, s *store.Store, b *broadcast.Broadcaster, logger *zap.SugaredLogger) *TickDriver {
	return &TickDriver{
		ctx:         ctx,
		wg:          wg,
		interval:    interval,
		store:       s,
		matcher:     matcher.New(),
		broadcaster: b,
		logger:      logger,
		now:         time.Now,
	}
}

// StartTickDriver begins the sampling loop in a goroutine. The first tick is
// aligned to the next interval boundary so second fields advance cleanly.
func (d *TickDriver) StartTickDriver() error {
	d.logger.Infof("Starting tick driver with interval %v", d.interval)
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		// Align to the next boundary before starting the steady cadence.
		select {
		case <-time.After(d.now().Truncate(d.interval).Add(d.interval).Sub(d.now())):
		case <-d.ctx.Done():
			return
		}

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		d.tick(d.now())
		for {
			select {
			case <-ticker.C:
				d.tick(d.now())
			case <-d.ctx.Done():
				d.logger.Info("Tick driver shutting down")
				return
			}
		}
	}()

	return nil
}

// tick performs one sampling cycle for the given instant. The clock message
// always goes out before any alarm messages for the same instant.
func (d *TickDriver) tick(now time.Time) {
	sample := sampler.Sample(now)
	d.broadcaster.Publish(types.NewClockMessage(sample))

	alarms, err := d.store.List(d.ctx)
	if err != nil {
		// One bad read shouldn't stop the clock; skip matching this cycle.
		d.logger.Errorf("failed to list alarms for matching: %v", err)
		return
	}

	for _, id := range d.matcher.Match(now, alarms) {
		d.logger.Infof("alarm [%d] ringing at %s", id, now.Format("Mon 15:04:05"))
		d.broadcaster.Publish(types.NewAlarmMessage(id))
	}
}
