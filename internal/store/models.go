// Package store provides SQLite-backed persistence for the offline mood
// queue and cold-start snapshots. The engine owns its own database file, so
// it never reads or writes state belonging to unrelated local data; within
// the file, snapshot keys carry the "wellness." prefix.
package store

import (
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

// Snapshot keys. One key per snapshot, all under the private prefix.
const (
	snapshotPrefix  = "wellness."
	keyCurrentMood  = snapshotPrefix + "current_mood"
	keyLastSyncedAt = snapshotPrefix + "last_synced_at"
)

// QueuedEntry is a mood entry waiting for remote confirmation, together
// with the drain bookkeeping the reconciler needs.
type QueuedEntry struct {
	Entry *mood.Entry

	// Attempts counts failed upsert attempts since the entry was queued.
	Attempts int
	// NextAttemptAt is the earliest time the reconciler may retry. Zero
	// means the entry is immediately eligible.
	NextAttemptAt time.Time
}

// Storer defines the persistence surface consumed by the wellness service.
// SQLiteStore is the sole implementation.
type Storer interface {
	// Queue operations. Put writes or overwrites by entry id; Remove is a
	// no-op when the id is absent; List skips corrupt records rather than
	// failing the whole read.
	Put(entry *mood.Entry) error
	List() ([]*QueuedEntry, error)
	Remove(id string) error
	Count() (int, error)

	// Drain bookkeeping.
	RecordFailure(id string, nextAttemptAt time.Time) (attempts int, err error)
	ResetAttempts(id string) error

	// Snapshots for fast cold-start display.
	SaveCurrentMood(entry *mood.Entry) error
	CurrentMood() (*mood.Entry, error)
	SetLastSyncedAt(t time.Time) error
	LastSyncedAt() (time.Time, error)

	// Lifecycle.
	Close() error
}
