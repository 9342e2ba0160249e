// Package sequencer composes the balancing run state machine.
package sequencer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/quantumsync/attune/internal/events"
	"github.com/quantumsync/attune/internal/logging"
	"github.com/quantumsync/attune/internal/models"
	"github.com/quantumsync/attune/internal/notify"
	"github.com/quantumsync/attune/internal/progress"
	"github.com/quantumsync/attune/internal/selection"
	"github.com/quantumsync/attune/internal/session"
	"github.com/quantumsync/attune/internal/transition"
	"github.com/rs/zerolog"
)

// Orchestrator errors.
var (
	ErrMissingSubjectName = errors.New("subject name is required")
	ErrNoStagesSelected   = errors.New("no stages selected")
)

// DiagnosticSource supplies per-stage diagnostic states on demand.
type DiagnosticSource interface {
	ListBySubject(ctx context.Context, subjectName string) ([]models.Diagnostic, error)
}

// Config contains orchestrator configuration.
type Config struct {
	// TickInterval is the progress tick interval.
	// Default: 250ms.
	TickInterval time.Duration

	// MinuteLength is the wall-clock length of one configured minute.
	// Default: time.Minute. Shortened by tests.
	MinuteLength time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: 250 * time.Millisecond,
		MinuteLength: time.Minute,
	}
}

// State is a consistent snapshot of the orchestrator.
type State struct {
	Phase           Phase
	SubjectName     string
	DurationMinutes int
	Stage           *models.Stage
	Percent         float64
	StageIndex      int
	StageCount      int
	Completed       bool
}

// Orchestrator sequences a balancing run through its selected stages.
// It owns the wiring between the session holder, progress tracker,
// transition controller, selection policy and notification sink, and
// exposes only Start, Stop and State.
type Orchestrator struct {
	config      Config
	holder      *session.Holder
	tracker     *progress.Tracker
	controller  *transition.Controller
	diagnostics DiagnosticSource
	eventRepo   events.Repository
	sink        notify.Sink
	logger      zerolog.Logger

	mu     sync.Mutex
	phase  Phase
	stages []models.Stage
	index  int

	// run invalidates timer callbacks from a superseded arming. It is
	// bumped on every Start and Stop; callbacks captured an older value
	// become no-ops.
	run uint64
}

// New creates an orchestrator. diagnostics and eventRepo may be nil;
// a nil diagnostics source makes unbalanced mode fail open, and a nil
// event repository disables event logging.
func New(config Config, holder *session.Holder, diagnostics DiagnosticSource, eventRepo events.Repository, sink notify.Sink) *Orchestrator {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}
	if config.MinuteLength <= 0 {
		config.MinuteLength = DefaultConfig().MinuteLength
	}
	if sink == nil {
		sink = notify.NewLogSink()
	}

	return &Orchestrator{
		config:      config,
		holder:      holder,
		tracker:     progress.NewTracker(),
		controller:  transition.NewController(transition.Config{TickInterval: config.TickInterval}),
		diagnostics: diagnostics,
		eventRepo:   eventRepo,
		sink:        sink,
		logger:      logging.Component("sequencer"),
		phase:       PhaseIdle,
	}
}

// Start begins a run for the named subject. On validation failure the
// orchestrator stays in its prior phase, emits the corresponding
// notification, and arms no timer.
func (o *Orchestrator) Start(ctx context.Context, subjectName string, mode models.SelectionMode, durationMinutes int) error {
	name := strings.TrimSpace(subjectName)
	if name == "" {
		o.sink.Notify(notify.MissingSubjectName())
		return ErrMissingSubjectName
	}

	diagnostics := o.loadDiagnostics(ctx, name, mode)
	stages := selection.ComputeStages(mode, diagnostics)
	if len(stages) == 0 {
		o.sink.Notify(notify.EmptyStageList(name))
		return ErrNoStagesSelected
	}

	if err := o.holder.Begin(name, durationMinutes); err != nil {
		o.sink.Notify(notify.MissingSubjectName())
		return err
	}
	minutes := o.holder.Snapshot().DurationMinutes

	o.mu.Lock()
	if !transitionAllowed(o.phase, EvStart, PhaseRunning) {
		o.mu.Unlock()
		o.holder.End()
		return errors.New("start not allowed from phase " + string(o.phase))
	}
	o.phase = PhaseRunning
	o.stages = stages
	o.index = 0
	o.run++
	run := o.run
	first := stages[0]
	o.mu.Unlock()

	o.tracker.Clear()
	o.tracker.SetStage(first)

	o.logger.Info().
		Str("subject", name).
		Str("mode", string(mode)).
		Int("duration_minutes", minutes).
		Int("stage_count", len(stages)).
		Msg("run starting")

	if o.eventRepo != nil {
		if err := events.LogSessionStarted(ctx, o.eventRepo, name, mode, minutes, selection.StageNames(stages)); err != nil {
			o.logger.Warn().Err(err).Msg("failed to log session start event")
		}
	}
	o.sink.Notify(notify.SessionStarted(name, first))

	o.arm(run, first, minutes)
	return nil
}

// Stop cancels the run and returns to Idle. Safe to call from any
// phase; no completion record is ever written on explicit stop.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.mu.Lock()
	wasRunning := o.phase == PhaseRunning
	if !transitionAllowed(o.phase, EvStop, PhaseIdle) {
		o.mu.Unlock()
		return
	}
	o.phase = PhaseIdle
	o.stages = nil
	o.index = 0
	o.run++
	o.mu.Unlock()

	// Cancel outside the orchestrator lock: the controller drains any
	// in-flight delivery, and deliveries take the lock to check run.
	o.controller.Cancel()

	atStage := ""
	if snap := o.tracker.Snapshot(); snap.Stage != nil {
		atStage = snap.Stage.Name
	}
	o.tracker.Clear()
	o.holder.End()

	if !wasRunning {
		return
	}

	name := o.holder.Snapshot().SubjectName
	o.logger.Info().Str("subject", name).Str("at_stage", atStage).Msg("run stopped")
	if o.eventRepo != nil {
		if err := events.LogSessionStopped(ctx, o.eventRepo, name, atStage); err != nil {
			o.logger.Warn().Err(err).Msg("failed to log session stop event")
		}
	}
	o.sink.Notify(notify.SessionStopped(name))
}

// State returns a consistent snapshot of the run.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	phase := o.phase
	index := o.index
	count := len(o.stages)
	o.mu.Unlock()

	sessionSnap := o.holder.Snapshot()
	progressSnap := o.tracker.Snapshot()

	return State{
		Phase:           phase,
		SubjectName:     sessionSnap.SubjectName,
		DurationMinutes: sessionSnap.DurationMinutes,
		Stage:           progressSnap.Stage,
		Percent:         progressSnap.Percent,
		StageIndex:      index,
		StageCount:      count,
		Completed:       sessionSnap.Completed,
	}
}

// RecentlyBalanced reports whether the subject completed a run within
// the local cache's balance window.
func (o *Orchestrator) RecentlyBalanced(subjectName string) (bool, error) {
	return o.holder.RecentlyBalanced(subjectName)
}

func (o *Orchestrator) loadDiagnostics(ctx context.Context, name string, mode models.SelectionMode) []models.Diagnostic {
	if mode != models.SelectionModeUnbalanced || o.diagnostics == nil {
		return nil
	}
	diagnostics, err := o.diagnostics.ListBySubject(ctx, name)
	if err != nil {
		// Fail open: selection falls back to the full catalog.
		o.logger.Warn().Err(err).Str("subject", name).Msg("failed to load diagnostics")
		return nil
	}
	return diagnostics
}

// arm starts the transition timer for the stage at the current index.
func (o *Orchestrator) arm(run uint64, stage models.Stage, minutes int) {
	total := time.Duration(minutes) * o.config.MinuteLength

	o.controller.Begin(stage, true, total,
		func(percent float64) {
			if !o.runCurrent(run) {
				return
			}
			o.tracker.SetPercent(percent)
		},
		func() {
			o.advance(run)
		},
	)
}

func (o *Orchestrator) runCurrent(run uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.run == run && o.phase == PhaseRunning
}

// advance moves to the next stage, or completes the run after the
// last one. Called from the transition controller's completion
// callback; a stale run value makes it a no-op.
func (o *Orchestrator) advance(run uint64) {
	o.mu.Lock()
	if o.run != run || o.phase != PhaseRunning {
		o.mu.Unlock()
		return
	}

	if o.index+1 < len(o.stages) {
		if !transitionAllowed(o.phase, EvStageComplete, PhaseRunning) {
			o.mu.Unlock()
			return
		}
		o.index++
		index := o.index
		count := len(o.stages)
		from := o.stages[index-1]
		next := o.stages[index]
		o.mu.Unlock()

		// Stage swap and progress reset happen as one tracker update
		// before the new timer is armed.
		o.tracker.SetStage(next)

		name := o.holder.Snapshot().SubjectName
		minutes := o.holder.Snapshot().DurationMinutes
		o.logger.Debug().
			Str("subject", name).
			Str("from", from.Name).
			Str("to", next.Name).
			Int("index", index).
			Msg("advancing stage")

		if o.eventRepo != nil {
			if err := events.LogStageAdvanced(context.Background(), o.eventRepo, name, from.Name, next.Name, index, count); err != nil {
				o.logger.Warn().Err(err).Msg("failed to log stage advance event")
			}
		}
		o.sink.Notify(notify.StageAdvanced(next, index, count))

		o.arm(run, next, minutes)
		return
	}

	if !transitionAllowed(o.phase, EvStageComplete, PhaseCompleted) {
		o.mu.Unlock()
		return
	}
	o.phase = PhaseCompleted
	stages := o.stages
	o.mu.Unlock()

	o.complete(stages)
}

// complete finalizes a naturally finished run: timers stopped, session
// marked completed, one completion record, one completion notification.
func (o *Orchestrator) complete(stages []models.Stage) {
	o.controller.Cancel()
	o.holder.MarkCompleted()

	snap := o.holder.Snapshot()
	stageNames := selection.StageNames(stages)
	ctx := context.Background()

	recordID, err := o.holder.Record(ctx, models.SessionData{
		DurationMinutes: snap.DurationMinutes,
		Stages:          stageNames,
		CompletedAt:     time.Now().UTC(),
	})
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		o.sink.Notify(notify.PermissionError())
	case errors.Is(err, session.ErrDurableWriteFailed):
		o.sink.Notify(notify.PersistWarning(err))
	case err != nil:
		o.sink.Notify(notify.PersistWarning(err))
	}

	o.logger.Info().
		Str("subject", snap.SubjectName).
		Str("record_id", recordID).
		Int("stages", len(stageNames)).
		Msg("run completed")

	if o.eventRepo != nil {
		if err := events.LogSessionCompleted(ctx, o.eventRepo, snap.SubjectName, snap.DurationMinutes, stageNames, recordID); err != nil {
			o.logger.Warn().Err(err).Msg("failed to log session completion event")
		}
	}
	o.sink.Notify(notify.SessionCompleted(snap.SubjectName))
}
