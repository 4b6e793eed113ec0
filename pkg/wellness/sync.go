package wellness

import (
	"context"
	"sort"
	"time"
)

// Report summarizes one drain pass over the offline queue.
type Report struct {
	// SyncedCount is the number of entries confirmed and removed.
	SyncedCount int
	// Skipped counts entries whose backoff window had not elapsed.
	Skipped int
	// Stalled lists ids that hit the attempt ceiling and now need a
	// manual retry.
	Stalled []string
	// Errors holds one error per entry that failed this pass.
	Errors []error
}

// SyncOfflineMoods drains the offline queue strictly sequentially so the
// same item is never in flight twice. Each eligible item is upserted,
// keyed on its client token; success removes it from the queue, failure
// schedules an exponential-backoff retry until the attempt ceiling marks
// it stalled. New items queued mid-drain are simply picked up next pass.
func (s *Service) SyncOfflineMoods(ctx context.Context) (Report, error) {
	var report Report

	queued, err := s.store.List()
	if err != nil {
		return report, err
	}
	// Oldest first, so a long queue drains in capture order.
	sort.SliceStable(queued, func(i, j int) bool {
		return queued[i].Entry.CreatedAt.Before(queued[j].Entry.CreatedAt)
	})

	for _, q := range queued {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		now := s.now()
		if q.Attempts >= s.maxAttempts {
			report.Stalled = append(report.Stalled, q.Entry.ID)
			continue
		}
		if !q.NextAttemptAt.IsZero() && now.Before(q.NextAttemptAt) {
			report.Skipped++
			continue
		}

		err := s.gw.Upsert(ctx, q.Entry)
		if err == nil {
			if rmErr := s.store.Remove(q.Entry.ID); rmErr != nil {
				report.Errors = append(report.Errors, rmErr)
				continue
			}
			q.Entry.Synced = true
			s.markSynced(q.Entry.ID)
			report.SyncedCount++
			continue
		}

		report.Errors = append(report.Errors, err)
		attempts, recErr := s.store.RecordFailure(q.Entry.ID, now.Add(s.backoff(q.Attempts)))
		if recErr != nil {
			s.log.Warnw("failed to record drain failure", "id", q.Entry.ID, "error", recErr)
			continue
		}
		if attempts >= s.maxAttempts {
			s.log.Warnw("entry hit retry ceiling, needs manual retry",
				"id", q.Entry.ID, "attempts", attempts)
			report.Stalled = append(report.Stalled, q.Entry.ID)
		}

		// A missing user context will fail every remaining item the same
		// way; stop the pass instead of burning through the queue.
		if unauthenticated(err) {
			break
		}
	}

	if report.SyncedCount > 0 {
		if err := s.store.SetLastSyncedAt(s.now()); err != nil {
			s.log.Warnw("failed to record last sync time", "error", err)
		}
	}

	return report, nil
}

// RetryStalled clears drain bookkeeping for entries that hit the attempt
// ceiling, then runs a drain. This is the user-initiated escape hatch from
// the stalled state.
func (s *Service) RetryStalled(ctx context.Context) (Report, error) {
	queued, err := s.store.List()
	if err != nil {
		return Report{}, err
	}
	for _, q := range queued {
		if q.Attempts >= s.maxAttempts {
			if err := s.store.ResetAttempts(q.Entry.ID); err != nil {
				return Report{}, err
			}
		}
	}
	return s.SyncOfflineMoods(ctx)
}

// backoff returns the wait before the next retry after the given number of
// prior failed attempts: base doubled per attempt, capped.
func (s *Service) backoff(attempts int) time.Duration {
	d := s.backoffBase
	for i := 0; i < attempts; i++ {
		d *= 2
		if d >= s.backoffCap {
			return s.backoffCap
		}
	}
	return d
}

// markSynced flips the synced flag on the loaded copy of an entry, keeping
// its locally generated id untouched.
func (s *Service) markSynced(id string) {
	for _, e := range s.entries {
		if e.ID == id {
			e.Synced = true
			return
		}
	}
}

// queuedSummary partitions the queue for status reads.
func (s *Service) queuedSummary() (pending, stalled int) {
	queued, err := s.store.List()
	if err != nil {
		s.log.Warnw("failed to list offline queue", "error", err)
		return 0, 0
	}
	for _, q := range queued {
		if q.Attempts >= s.maxAttempts {
			stalled++
		} else {
			pending++
		}
	}
	return pending, stalled
}
