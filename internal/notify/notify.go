// Package notify maps sequencer lifecycle events to user-facing
// notifications and delivers them through an injected sink.
package notify

import (
	"fmt"

	"github.com/quantumsync/attune/internal/logging"
	"github.com/quantumsync/attune/internal/models"
	"github.com/rs/zerolog"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a user-facing toast payload.
type Notification struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Severity Severity `json:"severity"`
}

// Sink renders notifications. Delivery is fire-and-forget; the
// sequencer never consumes a return value.
type Sink interface {
	Notify(notification Notification)
}

// SessionStarted announces the start of a run.
func SessionStarted(subjectName string, stage models.Stage) Notification {
	return Notification{
		Title:    "Session started",
		Body:     fmt.Sprintf("Balancing %s, beginning with the %s chakra (%d Hz)", subjectName, stage.Name, stage.Frequency),
		Severity: SeverityInfo,
	}
}

// SessionStopped announces an explicit stop.
func SessionStopped(subjectName string) Notification {
	return Notification{
		Title:    "Session stopped",
		Body:     fmt.Sprintf("Balancing for %s was stopped before completion", subjectName),
		Severity: SeverityInfo,
	}
}

// StageAdvanced announces a move to the next stage.
func StageAdvanced(stage models.Stage, index, total int) Notification {
	return Notification{
		Title:    "Moving on",
		Body:     fmt.Sprintf("Now balancing the %s chakra (%d of %d)", stage.Name, index+1, total),
		Severity: SeverityInfo,
	}
}

// SessionCompleted announces a full natural completion.
func SessionCompleted(subjectName string) Notification {
	return Notification{
		Title:    "Session complete",
		Body:     fmt.Sprintf("All selected chakras for %s are balanced", subjectName),
		Severity: SeverityInfo,
	}
}

// MissingSubjectName reports a start attempt with no name.
func MissingSubjectName() Notification {
	return Notification{
		Title:    "Name required",
		Body:     "Enter a name before starting a balancing session",
		Severity: SeverityError,
	}
}

// EmptyStageList reports a filtered selection with nothing to balance.
func EmptyStageList(subjectName string) Notification {
	return Notification{
		Title:    "Nothing to balance",
		Body:     fmt.Sprintf("All of %s's chakras are already open", subjectName),
		Severity: SeverityInfo,
	}
}

// PersistWarning reports a failed durable write after completion.
func PersistWarning(err error) Notification {
	return Notification{
		Title:    "Session saved locally",
		Body:     fmt.Sprintf("The session record could not be stored durably: %v", err),
		Severity: SeverityWarning,
	}
}

// PermissionError reports an unauthenticated completion record.
func PermissionError() Notification {
	return Notification{
		Title:    "Not signed in",
		Body:     "The session was saved locally only; sign in to keep durable records",
		Severity: SeverityError,
	}
}

// LogSink writes notifications to the structured log. It is the
// default sink for headless runs.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink() *LogSink {
	return &LogSink{logger: logging.Component("notify")}
}

// Notify implements Sink.
func (s *LogSink) Notify(notification Notification) {
	event := s.logger.Info()
	switch notification.Severity {
	case SeverityWarning:
		event = s.logger.Warn()
	case SeverityError:
		event = s.logger.Error()
	}
	event.
		Str("title", notification.Title).
		Str("severity", string(notification.Severity)).
		Msg(notification.Body)
}

// FuncSink adapts a function into a Sink.
type FuncSink func(notification Notification)

// Notify implements Sink.
func (f FuncSink) Notify(notification Notification) {
	f(notification)
}
