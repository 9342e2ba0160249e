package models

import (
	"strings"
	"time"
)

// SessionType identifies the kind of session a record describes.
type SessionType string

const (
	SessionTypeBalance SessionType = "balance_chakras"
)

// SelectionMode controls which stages a run visits.
type SelectionMode string

const (
	// SelectionModeAll visits every catalog stage.
	SelectionModeAll SelectionMode = "all"

	// SelectionModeUnbalanced visits only stages whose diagnostic state
	// is closed or blocked.
	SelectionModeUnbalanced SelectionMode = "only-unbalanced"
)

// DiagnosticState describes the diagnosed condition of one stage.
type DiagnosticState string

const (
	DiagnosticOpen    DiagnosticState = "open"
	DiagnosticClosed  DiagnosticState = "closed"
	DiagnosticBlocked DiagnosticState = "blocked"
)

// Unbalanced reports whether a diagnostic state calls for balancing.
func (s DiagnosticState) Unbalanced() bool {
	return s == DiagnosticClosed || s == DiagnosticBlocked
}

// Diagnostic pairs a stage name with its diagnosed state.
type Diagnostic struct {
	StageName string          `json:"stage_name"`
	State     DiagnosticState `json:"state"`
}

// Session represents one in-progress or completed balancing run.
type Session struct {
	// SubjectName is the person the run is for. Required to start.
	SubjectName string `json:"subject_name"`

	// DurationMinutes is the per-stage duration in minutes (1-5).
	DurationMinutes int `json:"duration_minutes"`

	// Running indicates a run is in progress.
	Running bool `json:"running"`

	// Completed indicates the run finished all selected stages.
	Completed bool `json:"completed"`
}

// SessionRecord is the durable record of a completed run.
type SessionRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// PatientID identifies the subject the session was for.
	PatientID string `json:"patient_id"`

	// TherapistID is the authenticated actor who ran the session.
	TherapistID string `json:"therapist_id"`

	// Type is the session type.
	Type SessionType `json:"session_type"`

	// Data holds the per-run details.
	Data SessionData `json:"session_data"`

	// CreatedAt is when the record was stored.
	CreatedAt time.Time `json:"created_at"`
}

// SessionData is the per-run payload stored with a session record.
type SessionData struct {
	// DurationMinutes is the per-stage duration used.
	DurationMinutes int `json:"duration"`

	// Stages lists the stage names visited, in order.
	Stages []string `json:"stages"`

	// CompletedAt is when the run finished.
	CompletedAt time.Time `json:"completedAt"`
}

// Validate checks if the session record is valid.
func (r *SessionRecord) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(r.PatientID) == "" {
		validation.AddMessage("patient_id", "patient_id is required")
	}
	if strings.TrimSpace(r.TherapistID) == "" {
		validation.AddMessage("therapist_id", "therapist_id is required")
	}
	if r.Type == "" {
		validation.AddMessage("session_type", "session_type is required")
	}
	return validation.Err()
}

// BalanceEntry is one append-only local cache entry for a subject.
type BalanceEntry struct {
	// SubjectName is the name the entry is keyed by.
	SubjectName string `json:"personName"`

	// Timestamp is when the run completed.
	Timestamp time.Time `json:"timestamp"`

	// Balanced is true for completed runs.
	Balanced bool `json:"balanced"`
}
