package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"github.com/kittclouds/gowell/pkg/mood"
)

// SQLiteStore is the SQLite-backed data store. Thread-safe: SQLite gives
// per-statement atomicity and the mutex serializes multi-statement writes,
// but note that a caller-level list-then-write sequence is still not
// transactional across two concurrent engine calls.
type SQLiteStore struct {
	mu  sync.RWMutex
	db  *sql.DB
	log *zap.SugaredLogger
}

// schema defines the queue and snapshot tables. Timestamps are stored as
// Unix milliseconds; triggers/activities as JSON arrays in TEXT columns.
const schema = `
-- Offline queue: one row per entry not yet confirmed remotely.
CREATE TABLE IF NOT EXISTS mood_queue (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    value INTEGER NOT NULL,
    note TEXT,
    triggers TEXT,
    activities TEXT,
    client_token TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    next_attempt_at INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_mood_queue_created ON mood_queue(created_at);

-- Snapshots: one row per key, JSON payloads, for fast cold-start display.
CREATE TABLE IF NOT EXISTS snapshots (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// NewSQLiteStore creates a new in-memory store, used by tests and the
// ephemeral CLI mode.
func NewSQLiteStore(log *zap.SugaredLogger) (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:", log)
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string, log *zap.SugaredLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SQLiteStore{db: db, log: log}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Queue
// =============================================================================

// Put writes or overwrites a queued entry by id. Attempt bookkeeping is
// preserved on overwrite so a re-put entry does not dodge its backoff.
func (s *SQLiteStore) Put(entry *mood.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggersJSON, err := json.Marshal(entry.Triggers)
	if err != nil {
		return fmt.Errorf("failed to marshal triggers: %w", err)
	}
	activitiesJSON, err := json.Marshal(entry.Activities)
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO mood_queue (id, user_id, value, note, triggers, activities,
			client_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			value = excluded.value,
			note = excluded.note,
			triggers = excluded.triggers,
			activities = excluded.activities,
			client_token = excluded.client_token,
			updated_at = excluded.updated_at
	`, entry.ID, entry.UserID, entry.Value, entry.Note,
		string(triggersJSON), string(activitiesJSON), entry.ClientToken,
		entry.CreatedAt.UnixMilli(), entry.UpdatedAt.UnixMilli())

	return err
}

// List returns every queued entry in no guaranteed order; sorting is the
// caller's job. Rows whose JSON columns fail to parse are skipped and
// logged rather than aborting the whole read.
func (s *SQLiteStore) List() ([]*QueuedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, user_id, value, note, triggers, activities, client_token,
			created_at, updated_at, attempts, next_attempt_at
		FROM mood_queue
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*QueuedEntry
	for rows.Next() {
		var (
			e             mood.Entry
			note          sql.NullString
			triggersJSON  sql.NullString
			activityJSON  sql.NullString
			createdAt     int64
			updatedAt     int64
			attempts      int
			nextAttemptAt int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Value, &note, &triggersJSON,
			&activityJSON, &e.ClientToken, &createdAt, &updatedAt,
			&attempts, &nextAttemptAt); err != nil {
			return nil, err
		}

		if note.Valid {
			e.Note = note.String
		}
		if triggersJSON.Valid && triggersJSON.String != "" {
			if err := json.Unmarshal([]byte(triggersJSON.String), &e.Triggers); err != nil {
				s.log.Warnw("skipping corrupt queued entry", "id", e.ID, "column", "triggers", "error", err)
				continue
			}
		}
		if activityJSON.Valid && activityJSON.String != "" {
			if err := json.Unmarshal([]byte(activityJSON.String), &e.Activities); err != nil {
				s.log.Warnw("skipping corrupt queued entry", "id", e.ID, "column", "activities", "error", err)
				continue
			}
		}

		e.CreatedAt = time.UnixMilli(createdAt)
		e.UpdatedAt = time.UnixMilli(updatedAt)
		e.Synced = false

		q := &QueuedEntry{Entry: &e, Attempts: attempts}
		if nextAttemptAt > 0 {
			q.NextAttemptAt = time.UnixMilli(nextAttemptAt)
		}
		out = append(out, q)
	}

	return out, rows.Err()
}

// Remove deletes one queued entry; no-op if absent.
func (s *SQLiteStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM mood_queue WHERE id = ?", id)
	return err
}

// Count returns the number of queued entries.
func (s *SQLiteStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM mood_queue").Scan(&count)
	return count, err
}

// RecordFailure increments an entry's attempt counter and sets the earliest
// time the next drain may retry it. Returns the new attempt count.
func (s *SQLiteStore) RecordFailure(id string, nextAttemptAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE mood_queue SET attempts = attempts + 1, next_attempt_at = ?
		WHERE id = ?
	`, nextAttemptAt.UnixMilli(), id)
	if err != nil {
		return 0, err
	}

	var attempts int
	err = s.db.QueryRow("SELECT attempts FROM mood_queue WHERE id = ?", id).Scan(&attempts)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return attempts, err
}

// ResetAttempts clears drain bookkeeping, making the entry immediately
// eligible again. Used by the manual-retry escape hatch.
func (s *SQLiteStore) ResetAttempts(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE mood_queue SET attempts = 0, next_attempt_at = 0 WHERE id = ?
	`, id)
	return err
}

// =============================================================================
// Snapshots
// =============================================================================

// SaveCurrentMood stores the latest entry for fast cold-start display.
func (s *SQLiteStore) SaveCurrentMood(entry *mood.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal current mood: %w", err)
	}
	return s.setSnapshot(keyCurrentMood, string(payload))
}

// CurrentMood returns the snapshot entry, or nil when none exists or the
// stored payload is corrupt (logged, not fatal).
func (s *SQLiteStore) CurrentMood() (*mood.Entry, error) {
	payload, ok, err := s.getSnapshot(keyCurrentMood)
	if err != nil || !ok {
		return nil, err
	}

	var e mood.Entry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		s.log.Warnw("skipping corrupt snapshot", "key", keyCurrentMood, "error", err)
		return nil, nil
	}
	return &e, nil
}

// SetLastSyncedAt records when a drain last confirmed an entry remotely.
func (s *SQLiteStore) SetLastSyncedAt(t time.Time) error {
	return s.setSnapshot(keyLastSyncedAt, fmt.Sprintf("%d", t.UnixMilli()))
}

// LastSyncedAt returns the recorded time, or the zero time when never set.
func (s *SQLiteStore) LastSyncedAt() (time.Time, error) {
	payload, ok, err := s.getSnapshot(keyLastSyncedAt)
	if err != nil || !ok {
		return time.Time{}, err
	}

	var ms int64
	if _, err := fmt.Sscanf(payload, "%d", &ms); err != nil {
		s.log.Warnw("skipping corrupt snapshot", "key", keyLastSyncedAt, "error", err)
		return time.Time{}, nil
	}
	return time.UnixMilli(ms), nil
}

func (s *SQLiteStore) setSnapshot(key, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO snapshots (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, key, payload, time.Now().UnixMilli())
	return err
}

func (s *SQLiteStore) getSnapshot(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRow("SELECT payload FROM snapshots WHERE key = ?", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)
