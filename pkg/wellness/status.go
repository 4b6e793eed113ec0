package wellness

import (
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

// Status is the read-only view exposed to UI collaborators.
type Status struct {
	// CurrentMood is the most recent entry, from memory when loaded or
	// from the cold-start snapshot otherwise. Nil when nothing exists.
	CurrentMood *mood.Entry `json:"currentMood"`
	// StreakDays is the consecutive-day count ending today.
	StreakDays int `json:"streakDays"`
	// PendingCount is the number of queued entries still being retried.
	PendingCount int `json:"pendingCount"`
	// StalledCount is the number of queued entries past the retry ceiling,
	// waiting on a manual retry.
	StalledCount int `json:"stalledCount"`
	// LastSyncedAt is when a drain last confirmed an entry remotely; zero
	// when no sync has ever succeeded.
	LastSyncedAt time.Time `json:"lastSyncedAt"`
}

// Status assembles the read-only view. Snapshot reads are best-effort: a
// failed read logs and leaves the field at its zero value.
func (s *Service) Status() Status {
	st := Status{StreakDays: s.CalculateStreak()}

	if len(s.entries) > 0 {
		st.CurrentMood = s.entries[0]
	} else {
		snapshot, err := s.store.CurrentMood()
		if err != nil {
			s.log.Warnw("failed to read current mood snapshot", "error", err)
		}
		st.CurrentMood = snapshot
	}

	st.PendingCount, st.StalledCount = s.queuedSummary()

	lastSync, err := s.store.LastSyncedAt()
	if err != nil {
		s.log.Warnw("failed to read last sync snapshot", "error", err)
	}
	st.LastSyncedAt = lastSync

	return st
}
