// Package progress tracks the active stage and its completion percentage.
package progress

import (
	"sync"
	"time"

	"github.com/quantumsync/attune/internal/models"
)

// Snapshot is a consistent read of the tracker state.
type Snapshot struct {
	// Stage is the active stage, or nil when no stage is active.
	Stage *models.Stage

	// Percent is the stage completion percentage, clamped to [0, 100].
	Percent float64

	// UpdatedAt is when Percent was last written. Diagnostic only.
	UpdatedAt time.Time
}

// Tracker holds the current stage and its progress percentage.
// The two fields always change together: setting a different stage
// resets progress to zero in the same critical section, so no reader
// can observe progress carried over from a previous stage.
type Tracker struct {
	mu        sync.RWMutex
	stage     *models.Stage
	prevName  string
	percent   float64
	updatedAt time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetStage makes the given stage current. If the stage differs from the
// previously recorded one, progress is reset to zero atomically with
// the swap. The previous stage is remembered internally rather than
// derived from the public value.
func (t *Tracker) SetStage(stage models.Stage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if stage.Name != t.prevName {
		t.percent = 0
		t.updatedAt = time.Now().UTC()
	}
	s := stage
	t.stage = &s
	t.prevName = stage.Name
}

// SetPercent records stage progress, clamped to [0, 100].
func (t *Tracker) SetPercent(value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	t.percent = value
	t.updatedAt = time.Now().UTC()
}

// Reset zeroes progress without touching the current stage.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.percent = 0
	t.updatedAt = time.Now().UTC()
}

// Clear drops the current stage and zeroes progress.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stage = nil
	t.prevName = ""
	t.percent = 0
	t.updatedAt = time.Now().UTC()
}

// Snapshot returns the stage and progress as one consistent read.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{Percent: t.percent, UpdatedAt: t.updatedAt}
	if t.stage != nil {
		s := *t.stage
		snap.Stage = &s
	}
	return snap
}
