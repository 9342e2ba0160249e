package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quantumsync/attune/internal/models"
)

// Session repository errors.
var (
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository handles durable session record persistence.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session record. The record is validated; an ID
// and creation timestamp are assigned if missing.
func (r *SessionRepository) Create(ctx context.Context, record *models.SessionRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	} else {
		record.CreatedAt = record.CreatedAt.UTC()
	}

	data, err := json.Marshal(record.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, patient_id, therapist_id, session_type, session_data_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.PatientID,
		record.TherapistID,
		string(record.Type),
		string(data),
		record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session record by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, patient_id, therapist_id, session_type, session_data_json, created_at
		FROM sessions WHERE id = ?
	`, id)

	record, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListByPatient retrieves session records for a patient, newest first.
// Patient matching is case-insensitive.
func (r *SessionRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]*models.SessionRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, therapist_id, session_type, session_data_json, created_at
		FROM sessions
		WHERE patient_id = ? COLLATE NOCASE
		ORDER BY created_at DESC
		LIMIT ?
	`, strings.TrimSpace(patientID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListRecent retrieves the most recent session records across patients.
func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]*models.SessionRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, therapist_id, session_type, session_data_json, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]*models.SessionRecord, error) {
	var records []*models.SessionRecord
	for rows.Next() {
		record, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return records, nil
}

func scanSession(scan func(...any) error) (*models.SessionRecord, error) {
	var record models.SessionRecord
	var sessionType, createdAt string
	var dataJSON sql.NullString

	if err := scan(
		&record.ID,
		&record.PatientID,
		&record.TherapistID,
		&sessionType,
		&dataJSON,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	record.Type = models.SessionType(sessionType)

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		record.CreatedAt = t
	}

	if dataJSON.Valid {
		if err := json.Unmarshal([]byte(dataJSON.String), &record.Data); err != nil {
			return nil, fmt.Errorf("failed to parse session data: %w", err)
		}
	}

	return &record, nil
}
