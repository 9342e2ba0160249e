// Package session manages balancing run state and completion records.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quantumsync/attune/internal/logging"
	"github.com/quantumsync/attune/internal/models"
	"github.com/rs/zerolog"
)

// Session errors.
var (
	ErrMissingSubjectName = errors.New("subject name is required")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrDurableWriteFailed = errors.New("durable session write failed")
)

// Per-stage duration bounds, in minutes.
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 5
)

// Recorder persists durable session records.
type Recorder interface {
	Create(ctx context.Context, record *models.SessionRecord) error
}

// Cache is the local balance cache the holder writes through.
type Cache interface {
	Append(entry models.BalanceEntry) error
	RecentlyBalanced(subjectName string, now time.Time) (bool, error)
}

// Holder owns the per-run session state and the completion record
// dual-write: a local cache write that always happens, and a
// best-effort durable write keyed by the authenticated actor.
type Holder struct {
	cache       Cache
	recorder    Recorder
	therapistID string
	logger      zerolog.Logger

	mu      sync.RWMutex
	session models.Session
}

// NewHolder creates a session holder. therapistID is the authenticated
// actor identity; empty means unauthenticated, which skips durable
// writes entirely.
func NewHolder(cache Cache, recorder Recorder, therapistID string) *Holder {
	return &Holder{
		cache:       cache,
		recorder:    recorder,
		therapistID: strings.TrimSpace(therapistID),
		logger:      logging.Component("session"),
	}
}

// Begin starts a run for the named subject. The name must be
// non-empty; the per-stage duration is clamped to [1, 5] minutes.
// On validation failure no state is mutated.
func (h *Holder) Begin(subjectName string, durationMinutes int) error {
	name := strings.TrimSpace(subjectName)
	if name == "" {
		return ErrMissingSubjectName
	}

	if durationMinutes < MinDurationMinutes {
		durationMinutes = MinDurationMinutes
	}
	if durationMinutes > MaxDurationMinutes {
		durationMinutes = MaxDurationMinutes
	}

	h.mu.Lock()
	h.session = models.Session{
		SubjectName:     name,
		DurationMinutes: durationMinutes,
		Running:         true,
	}
	h.mu.Unlock()

	h.logger.Debug().
		Str("subject", name).
		Int("duration_minutes", durationMinutes).
		Msg("session began")
	return nil
}

// End stops the run. Always safe to call; idempotent.
func (h *Holder) End() {
	h.mu.Lock()
	h.session.Running = false
	h.mu.Unlock()
}

// MarkCompleted flags the run as having finished all selected stages.
func (h *Holder) MarkCompleted() {
	h.mu.Lock()
	h.session.Running = false
	h.session.Completed = true
	h.mu.Unlock()
}

// Snapshot returns a copy of the current session state.
func (h *Holder) Snapshot() models.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// RecentlyBalanced reports whether the subject completed a run within
// the cache's balance window.
func (h *Holder) RecentlyBalanced(subjectName string) (bool, error) {
	return h.cache.RecentlyBalanced(subjectName, time.Now())
}

// Record persists a completion record for the current run.
//
// The local cache write always happens first and is never rolled back.
// The durable write is best-effort: an unauthenticated actor returns
// ErrNotAuthenticated without attempting it, and a failed write
// returns an error wrapping ErrDurableWriteFailed. In both cases the
// cache entry and the completed flag stand.
func (h *Holder) Record(ctx context.Context, data models.SessionData) (string, error) {
	snapshot := h.Snapshot()
	now := time.Now().UTC()

	if err := h.cache.Append(models.BalanceEntry{
		SubjectName: snapshot.SubjectName,
		Timestamp:   now,
		Balanced:    true,
	}); err != nil {
		// Cache failures are logged, not surfaced: the durable write
		// may still succeed and the two stores are independent.
		h.logger.Warn().Err(err).Str("subject", snapshot.SubjectName).Msg("local cache write failed")
	}

	if h.therapistID == "" {
		h.logger.Warn().Str("subject", snapshot.SubjectName).Msg("skipping durable write: not authenticated")
		return "", ErrNotAuthenticated
	}

	if data.CompletedAt.IsZero() {
		data.CompletedAt = now
	}
	record := &models.SessionRecord{
		PatientID:   snapshot.SubjectName,
		TherapistID: h.therapistID,
		Type:        models.SessionTypeBalance,
		Data:        data,
	}
	if err := h.recorder.Create(ctx, record); err != nil {
		h.logger.Warn().Err(err).Str("subject", snapshot.SubjectName).Msg("durable session write failed")
		return "", fmt.Errorf("%w: %v", ErrDurableWriteFailed, err)
	}

	h.logger.Info().
		Str("subject", snapshot.SubjectName).
		Str("record_id", record.ID).
		Msg("session recorded")
	return record.ID, nil
}
