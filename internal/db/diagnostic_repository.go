package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quantumsync/attune/internal/models"
)

// Diagnostic repository errors.
var (
	ErrInvalidDiagnostic = errors.New("invalid diagnostic")
	ErrUnknownStage      = errors.New("unknown stage")
)

// DiagnosticRepository stores per-subject, per-stage diagnostic states.
type DiagnosticRepository struct {
	db *DB
}

// NewDiagnosticRepository creates a new DiagnosticRepository.
func NewDiagnosticRepository(db *DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

// Set records the diagnosed state of one stage for a subject,
// replacing any previous state for that stage.
func (r *DiagnosticRepository) Set(ctx context.Context, subjectName string, diagnostic models.Diagnostic) error {
	subject := strings.TrimSpace(subjectName)
	if subject == "" {
		return ErrInvalidDiagnostic
	}
	stage, ok := models.StageByName(diagnostic.StageName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, diagnostic.StageName)
	}
	switch diagnostic.State {
	case models.DiagnosticOpen, models.DiagnosticClosed, models.DiagnosticBlocked:
	default:
		return fmt.Errorf("%w: state %q", ErrInvalidDiagnostic, diagnostic.State)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO diagnostics (subject_name, stage_name, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (subject_name, stage_name)
		DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`,
		strings.ToLower(subject),
		stage.Name,
		string(diagnostic.State),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert diagnostic: %w", err)
	}

	return nil
}

// ListBySubject returns the recorded diagnostics for a subject in
// canonical catalog order. Subjects are matched case-insensitively.
// A subject with no diagnostics yields an empty slice.
func (r *DiagnosticRepository) ListBySubject(ctx context.Context, subjectName string) ([]models.Diagnostic, error) {
	subject := strings.ToLower(strings.TrimSpace(subjectName))
	if subject == "" {
		return nil, ErrInvalidDiagnostic
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT stage_name, state
		FROM diagnostics
		WHERE subject_name = ?
	`, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	byStage := make(map[string]models.DiagnosticState)
	for rows.Next() {
		var stageName, state string
		if err := rows.Scan(&stageName, &state); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		byStage[stageName] = models.DiagnosticState(state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diagnostics: %w", err)
	}

	diagnostics := make([]models.Diagnostic, 0, len(byStage))
	for _, stage := range models.Catalog() {
		if state, ok := byStage[stage.Name]; ok {
			diagnostics = append(diagnostics, models.Diagnostic{
				StageName: stage.Name,
				State:     state,
			})
		}
	}
	return diagnostics, nil
}
