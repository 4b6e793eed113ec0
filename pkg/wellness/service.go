// Package wellness is the top-level orchestration over the mood engine:
// entry capture with offline fallback, window loads, trend and streak
// statistics, crisis classification, and the offline-queue drain.
package wellness

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kittclouds/gowell/internal/store"
	"github.com/kittclouds/gowell/pkg/crisis"
	"github.com/kittclouds/gowell/pkg/gateway"
	"github.com/kittclouds/gowell/pkg/mood"
	"github.com/kittclouds/gowell/pkg/streak"
	"github.com/kittclouds/gowell/pkg/trend"
	"github.com/kittclouds/gowell/pkg/triggers"
)

// Drain tuning defaults. Backoff doubles per failed attempt starting at the
// base, capped, until the ceiling marks the entry stalled.
const (
	DefaultMaxAttempts = 8
	DefaultBackoffBase = 30 * time.Second
	DefaultBackoffCap  = 30 * time.Minute
)

// Config tunes a Service. Zero values fall back to the defaults above.
type Config struct {
	UserID      string
	MaxAttempts int
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// Now is the clock source; nil means time.Now. Injectable for tests.
	Now func() time.Time
}

// Service is the wellness engine constructed once per session and passed by
// reference to its consumers. It spawns no goroutines of its own beyond the
// bounded fan-out inside LoadRecentMoods, and provides no mutual exclusion
// across operations: callers are expected not to overlap AddMoodEntry or
// SyncOfflineMoods calls.
type Service struct {
	gw         gateway.Gateway
	store      store.Storer
	classifier *crisis.Classifier
	suggester  *triggers.Suggester
	log        *zap.SugaredLogger

	userID      string
	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration
	now         func() time.Time

	// entries is the currently loaded window, newest first. Refreshed by
	// LoadRecentMoods; feeds streak and status reads.
	entries []*mood.Entry
}

// New wires a Service. The classifier is compiled here so construction is
// the only place taxonomy errors can surface.
func New(gw gateway.Gateway, st store.Storer, log *zap.SugaredLogger, cfg Config) (*Service, error) {
	classifier, err := crisis.New()
	if err != nil {
		return nil, err
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = DefaultBackoffCap
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Service{
		gw:          gw,
		store:       st,
		classifier:  classifier,
		suggester:   triggers.New(),
		log:         log,
		userID:      cfg.UserID,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		backoffCap:  cfg.BackoffCap,
		now:         cfg.Now,
	}, nil
}

// EntryOption customizes an entry before capture.
type EntryOption func(*mood.Entry)

// WithTriggers attaches trigger tags to the entry.
func WithTriggers(tags ...string) EntryOption {
	return func(e *mood.Entry) { e.Triggers = tags }
}

// WithActivities attaches activity tags to the entry.
func WithActivities(tags ...string) EntryOption {
	return func(e *mood.Entry) { e.Activities = tags }
}

// AddMoodEntry captures a mood self-report. The remote insert is
// best-effort: on any gateway error the entry lands in the offline queue
// with Synced=false and the caller still receives a usable entry. Only
// validation fails hard, before any persistence attempt.
func (s *Service) AddMoodEntry(ctx context.Context, value int, note string, opts ...EntryOption) (*mood.Entry, error) {
	entry, err := mood.NewLocalEntry(s.userID, value, note, s.now())
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(entry)
	}

	confirmed, err := s.gw.Insert(ctx, entry)
	switch {
	case err == nil:
		// The id stays the locally minted one even after confirmation.
		entry.Synced = true
		if confirmed != nil && confirmed.UpdatedAt.After(entry.UpdatedAt) {
			entry.UpdatedAt = confirmed.UpdatedAt
		}
	default:
		s.log.Infow("remote insert failed, queuing locally",
			"id", entry.ID, "error", err)
		if putErr := s.store.Put(entry); putErr != nil {
			// Local persistence is the backstop; its failure is the one
			// write-path error worth surfacing.
			return nil, putErr
		}
	}

	if err := s.store.SaveCurrentMood(entry); err != nil {
		s.log.Warnw("failed to save current mood snapshot", "error", err)
	}
	s.entries = append([]*mood.Entry{entry}, s.entries...)

	return entry, nil
}

// LoadRecentMoods merges the remote window with the offline queue: remote
// and local fetches run in parallel, the union is deduplicated by id
// (remote copy wins), sorted newest first, and capped at 2×days to allow
// up to two check-ins per day. A remote failure degrades to queue-only
// data rather than erroring.
func (s *Service) LoadRecentMoods(ctx context.Context, days int) ([]*mood.Entry, error) {
	now := s.now()
	start := now.AddDate(0, 0, -days)

	var (
		remote []*mood.Entry
		queued []*store.QueuedEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.gw.Query(gctx, s.userID, start, now)
		if err != nil {
			s.log.Infow("remote query failed, serving queue only", "error", err)
			return nil
		}
		remote = entries
		return nil
	})
	g.Go(func() error {
		var err error
		queued, err = s.store.List()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(remote)+len(queued))
	merged := make([]*mood.Entry, 0, len(remote)+len(queued))
	for _, e := range remote {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		merged = append(merged, e)
	}
	for _, q := range queued {
		if seen[q.Entry.ID] {
			continue
		}
		seen[q.Entry.ID] = true
		merged = append(merged, q.Entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	// Up to two check-ins per day.
	if limit := 2 * days; len(merged) > limit {
		merged = merged[:limit]
	}

	s.entries = merged
	return merged, nil
}

// CalculateTrend fetches the period window remotely and feeds the trend
// calculator. On a gateway failure the calculation degrades to the
// best-available local data: the offline queue plus whatever window was
// loaded last.
func (s *Service) CalculateTrend(ctx context.Context, period mood.Period) (trend.Trend, error) {
	now := s.now()
	start, end := period.Window(now)

	entries, err := s.gw.Query(ctx, s.userID, start, end)
	if err != nil {
		s.log.Infow("remote query failed, computing trend from local data", "error", err)
		entries = s.localUnion()
	}

	return trend.Calculate(entries, period, now), nil
}

// CalculateStreak counts consecutive check-in days over the currently
// loaded entry set.
func (s *Service) CalculateStreak() int {
	return streak.Count(s.entries, s.now())
}

// DetectCrisisKeywords classifies arbitrary input text. Stateless; safe to
// call on every keystroke.
func (s *Service) DetectCrisisKeywords(text string) crisis.Result {
	return s.classifier.Detect(text)
}

// SuggestTriggers proposes trigger tags from a note's free text.
func (s *Service) SuggestTriggers(note string) []string {
	return s.suggester.Suggest(note)
}

// localUnion merges the loaded window with the offline queue, deduplicated
// by id, for degraded reads.
func (s *Service) localUnion() []*mood.Entry {
	seen := make(map[string]bool, len(s.entries))
	union := make([]*mood.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		seen[e.ID] = true
		union = append(union, e)
	}
	queued, err := s.store.List()
	if err != nil {
		s.log.Warnw("failed to list offline queue", "error", err)
		return union
	}
	for _, q := range queued {
		if !seen[q.Entry.ID] {
			union = append(union, q.Entry)
		}
	}
	return union
}

// unauthenticated reports whether err means the remote path is gone until
// the user signs in again; drains treat it as fatal for the whole pass.
func unauthenticated(err error) bool {
	return errors.Is(err, gateway.ErrUnauthenticated)
}
