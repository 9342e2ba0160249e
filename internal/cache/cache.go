// Package cache provides the local, same-device balance cache.
//
// The cache is a JSON-file-per-subject, append-only store used for
// quick "recently balanced" checks. It is deliberately independent of
// the durable session store: local writes always happen, even when the
// durable write fails.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantumsync/attune/internal/models"
)

// Cache errors.
var (
	ErrInvalidSubjectName = errors.New("invalid subject name")
)

// BalanceWindow is how long a completed run counts as "recent".
const BalanceWindow = 24 * time.Hour

// Store is a JSON-file balance cache rooted at a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Append records a balance entry for the entry's subject name.
func (s *Store) Append(entry models.BalanceEntry) error {
	key, err := subjectKey(entry.SubjectName)
	if err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	} else {
		entry.Timestamp = entry.Timestamp.UTC()
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	entries, err := s.readEntries(key)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entries: %w", err)
	}

	path := s.entryPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Entries returns all entries recorded for a subject name, matched
// case-insensitively. A subject with no entries yields an empty slice.
func (s *Store) Entries(subjectName string) ([]models.BalanceEntry, error) {
	key, err := subjectKey(subjectName)
	if err != nil {
		return nil, err
	}
	return s.readEntries(key)
}

// RecentlyBalanced reports whether a balanced entry exists for the
// subject within the balance window ending at now.
func (s *Store) RecentlyBalanced(subjectName string, now time.Time) (bool, error) {
	entries, err := s.Entries(subjectName)
	if err != nil {
		return false, err
	}

	cutoff := now.UTC().Add(-BalanceWindow)
	for _, entry := range entries {
		if entry.Balanced && entry.Timestamp.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) readEntries(key string) ([]models.BalanceEntry, error) {
	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.BalanceEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entries []models.BalanceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	return entries, nil
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// subjectKey normalizes a subject name into a stable, filesystem-safe
// cache key. Matching is case-insensitive.
func subjectKey(name string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	if trimmed == "" {
		return "", ErrInvalidSubjectName
	}

	var b strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String(), nil
}
