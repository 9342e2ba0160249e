// Package events provides helper functions for logging Attune events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantumsync/attune/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Append(ctx context.Context, event *models.Event) error
}

// LogSessionStarted records the start of a balancing run.
func LogSessionStarted(ctx context.Context, repo Repository, subjectName string, mode models.SelectionMode, durationMinutes int, stages []string) error {
	return log(ctx, repo, models.EventTypeSessionStarted, subjectName, models.SessionStartedPayload{
		SubjectName:     subjectName,
		Mode:            mode,
		DurationMinutes: durationMinutes,
		Stages:          stages,
	})
}

// LogStageAdvanced records a move from one stage to the next.
func LogStageAdvanced(ctx context.Context, repo Repository, subjectName, fromStage, toStage string, stageIndex, stageCount int) error {
	return log(ctx, repo, models.EventTypeStageAdvanced, subjectName, models.StageAdvancedPayload{
		SubjectName: subjectName,
		FromStage:   fromStage,
		ToStage:     toStage,
		StageIndex:  stageIndex,
		StageCount:  stageCount,
	})
}

// LogSessionCompleted records the natural completion of a run.
func LogSessionCompleted(ctx context.Context, repo Repository, subjectName string, durationMinutes int, stages []string, recordID string) error {
	return log(ctx, repo, models.EventTypeSessionCompleted, subjectName, models.SessionCompletedPayload{
		SubjectName:     subjectName,
		DurationMinutes: durationMinutes,
		Stages:          stages,
		RecordID:        recordID,
	})
}

// LogSessionStopped records an explicit stop of a run.
func LogSessionStopped(ctx context.Context, repo Repository, subjectName, atStage string) error {
	return log(ctx, repo, models.EventTypeSessionStopped, subjectName, models.SessionStoppedPayload{
		SubjectName: subjectName,
		AtStage:     atStage,
	})
}

// LogDiagnosisRecorded records a diagnostic state change for a stage.
func LogDiagnosisRecorded(ctx context.Context, repo Repository, subjectName, stageName string, state models.DiagnosticState) error {
	return log(ctx, repo, models.EventTypeDiagnosisRecorded, subjectName, models.DiagnosisRecordedPayload{
		SubjectName: subjectName,
		StageName:   stageName,
		State:       state,
	})
}

func log(ctx context.Context, repo Repository, eventType models.EventType, subjectName string, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	entityID := strings.ToLower(strings.TrimSpace(subjectName))
	if entityID == "" {
		return fmt.Errorf("subject name is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeSubject,
		EntityID:   entityID,
		Payload:    data,
	})
}
