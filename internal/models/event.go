package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Session events
	EventTypeSessionStarted   EventType = "session.started"
	EventTypeSessionStopped   EventType = "session.stopped"
	EventTypeSessionCompleted EventType = "session.completed"

	// Stage events
	EventTypeStageAdvanced EventType = "stage.advanced"

	// Diagnosis events
	EventTypeDiagnosisRecorded EventType = "diagnosis.recorded"

	// System events
	EventTypeError   EventType = "error"
	EventTypeWarning EventType = "warning"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeSession EntityType = "session"
	EntityTypeSubject EntityType = "subject"
	EntityTypeSystem  EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// SessionStartedPayload is the payload for session.started events.
type SessionStartedPayload struct {
	SubjectName     string        `json:"subject_name"`
	Mode            SelectionMode `json:"mode"`
	DurationMinutes int           `json:"duration_minutes"`
	Stages          []string      `json:"stages"`
}

// StageAdvancedPayload is the payload for stage.advanced events.
type StageAdvancedPayload struct {
	SubjectName string `json:"subject_name"`
	FromStage   string `json:"from_stage,omitempty"`
	ToStage     string `json:"to_stage"`
	StageIndex  int    `json:"stage_index"`
	StageCount  int    `json:"stage_count"`
}

// SessionCompletedPayload is the payload for session.completed events.
type SessionCompletedPayload struct {
	SubjectName     string   `json:"subject_name"`
	DurationMinutes int      `json:"duration_minutes"`
	Stages          []string `json:"stages"`
	RecordID        string   `json:"record_id,omitempty"`
}

// SessionStoppedPayload is the payload for session.stopped events.
type SessionStoppedPayload struct {
	SubjectName string `json:"subject_name"`
	AtStage     string `json:"at_stage,omitempty"`
}

// DiagnosisRecordedPayload is the payload for diagnosis.recorded events.
type DiagnosisRecordedPayload struct {
	SubjectName string          `json:"subject_name"`
	StageName   string          `json:"stage_name"`
	State       DiagnosticState `json:"state"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
