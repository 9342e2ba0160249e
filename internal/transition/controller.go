// Package transition drives timed progress through a single stage.
package transition

import (
	"sync"
	"time"

	"github.com/quantumsync/attune/internal/logging"
	"github.com/quantumsync/attune/internal/models"
	"github.com/rs/zerolog"
)

// Config contains transition controller configuration.
type Config struct {
	// TickInterval is how often progress callbacks fire.
	// Default: 250ms.
	TickInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: 250 * time.Millisecond,
	}
}

// Controller owns the single transition timer slot. At most one timer
// is active at any time; arming a new transition cancels the previous
// one first. Cancellation uses a generation counter captured at arming
// time so that ticks from a cancelled arming are never delivered, even
// if their tick had already fired.
type Controller struct {
	config Config
	logger zerolog.Logger

	mu         sync.Mutex
	generation uint64
	stopCh     chan struct{}
	active     bool

	// deliverMu serializes progress delivery with Cancel so that no
	// progress callback arrives after Cancel has returned.
	deliverMu sync.Mutex
}

// NewController creates a transition controller.
func NewController(config Config) *Controller {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}
	return &Controller{
		config: config,
		logger: logging.Component("transition"),
	}
}

// Begin arms a timer that walks progress from 0 to 100 over total,
// invoking onProgress on each tick and onComplete exactly once when
// 100 is reached. A previously armed timer is cancelled first.
//
// If running is false or total is not a positive duration, Begin is a
// no-op: no timer is armed and no callbacks fire.
func (c *Controller) Begin(stage models.Stage, running bool, total time.Duration, onProgress func(float64), onComplete func()) {
	if !running {
		return
	}
	if total <= 0 {
		c.logger.Debug().
			Str("stage", stage.Name).
			Dur("total", total).
			Msg("ignoring transition with non-positive duration")
		return
	}

	c.mu.Lock()
	c.cancelLocked()
	c.generation++
	gen := c.generation
	stopCh := make(chan struct{})
	c.stopCh = stopCh
	c.active = true
	c.mu.Unlock()

	c.logger.Debug().
		Str("stage", stage.Name).
		Dur("total", total).
		Uint64("generation", gen).
		Msg("transition armed")

	go c.run(gen, stopCh, total, onProgress, onComplete)
}

// Cancel stops any pending timer. It is idempotent, safe to call with
// no timer armed, and synchronous: once Cancel returns, no further
// progress callback for the cancelled arming will be delivered.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.cancelLocked()
	c.mu.Unlock()

	// Drain any in-flight progress delivery.
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
}

// Active reports whether a timer is currently armed.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// cancelLocked invalidates the current arming. Caller holds c.mu.
func (c *Controller) cancelLocked() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
	c.generation++
	c.active = false
}

// current reports whether gen is still the live arming.
func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == gen && c.active
}

// finish retires the arming if gen is still live, claiming the sole
// right to deliver onComplete.
func (c *Controller) finish(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || !c.active {
		return false
	}
	c.active = false
	c.stopCh = nil
	return true
}

func (c *Controller) run(gen uint64, stopCh chan struct{}, total time.Duration, onProgress func(float64), onComplete func()) {
	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()

	started := time.Now()

	for {
		select {
		case <-stopCh:
			return

		case <-ticker.C:
			percent := float64(time.Since(started)) / float64(total) * 100
			if percent > 100 {
				percent = 100
			}

			c.deliverMu.Lock()
			if !c.current(gen) {
				c.deliverMu.Unlock()
				return
			}
			if onProgress != nil {
				onProgress(percent)
			}
			c.deliverMu.Unlock()

			if percent < 100 {
				continue
			}

			// onComplete is delivered outside deliverMu: completion
			// handlers re-arm the controller for the next stage.
			if c.finish(gen) && onComplete != nil {
				onComplete()
			}
			return
		}
	}
}
