package wellness

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kittclouds/gowell/internal/store"
	"github.com/kittclouds/gowell/pkg/gateway"
	"github.com/kittclouds/gowell/pkg/mood"
)

// fakeGateway scripts the remote side. Upsert behavior is per-call via
// upsertErr; nil means success.
type fakeGateway struct {
	insertErr   error
	queryErr    error
	queryResult []*mood.Entry
	upsertErr   func(e *mood.Entry) error

	insertCalls int
	upsertCalls int
}

func (f *fakeGateway) Insert(_ context.Context, entry *mood.Entry) (*mood.Entry, error) {
	f.insertCalls++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	confirmed := entry.Clone()
	confirmed.Synced = true
	return confirmed, nil
}

func (f *fakeGateway) Query(_ context.Context, _ string, _, _ time.Time) ([]*mood.Entry, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResult, nil
}

func (f *fakeGateway) Upsert(_ context.Context, entry *mood.Entry) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr(entry)
	}
	return nil
}

var _ gateway.Gateway = (*fakeGateway)(nil)

// clock is a mutable fixed clock for deterministic backoff tests.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)}
}

func newService(t *testing.T, gw gateway.Gateway, clk *clock) (*Service, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := New(gw, st, nil, Config{UserID: "user-1", Now: clk.now})
	require.NoError(t, err)
	return svc, st
}

func TestAddMoodEntrySynced(t *testing.T) {
	gw := &fakeGateway{}
	clk := newClock()
	svc, st := newService(t, gw, clk)

	entry, err := svc.AddMoodEntry(context.Background(), 4, "good walk")
	require.NoError(t, err)
	require.True(t, entry.Synced)
	require.True(t, strings.HasPrefix(entry.ID, mood.LocalIDPrefix))
	require.Equal(t, "user-1", entry.UserID)

	count, err := st.Count()
	require.NoError(t, err)
	require.Zero(t, count, "a confirmed entry must not land in the queue")
}

func TestAddMoodEntryInvalidValue(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := newService(t, gw, newClock())

	_, err := svc.AddMoodEntry(context.Background(), 6, "")
	require.ErrorIs(t, err, mood.ErrInvalidValue)

	_, err = svc.AddMoodEntry(context.Background(), 0, "")
	require.ErrorIs(t, err, mood.ErrInvalidValue)

	count, err := st.Count()
	require.NoError(t, err)
	require.Zero(t, count, "invalid values must not persist anywhere")
	require.Zero(t, gw.insertCalls)
}

func TestAddMoodEntryQueuesOnGatewayFailure(t *testing.T) {
	gw := &fakeGateway{
		insertErr: gateway.ErrUnreachable,
		queryErr:  gateway.ErrUnreachable,
	}
	svc, st := newService(t, gw, newClock())

	entry, err := svc.AddMoodEntry(context.Background(), 2, "rough day")
	require.NoError(t, err, "a gateway failure must not fail the capture")
	require.False(t, entry.Synced)

	count, err := st.Count()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// The queued entry is immediately visible in reads, before any sync.
	recent, err := svc.LoadRecentMoods(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, entry.ID, recent[0].ID)
	require.False(t, recent[0].Synced)
}

func TestWithTriggersAndActivities(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newService(t, gw, newClock())

	entry, err := svc.AddMoodEntry(context.Background(), 3, "",
		WithTriggers("work", "sleep"), WithActivities("walking"))
	require.NoError(t, err)
	require.Equal(t, []string{"work", "sleep"}, entry.Triggers)
	require.Equal(t, []string{"walking"}, entry.Activities)
}

func TestLoadRecentMoodsRemoteWinsDedupe(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	entry, err := svc.AddMoodEntry(context.Background(), 3, "queued first")
	require.NoError(t, err)

	// The backend ends up holding the same entry, e.g. from another device
	// that drained the queue. The remote copy wins the merge.
	remote := entry.Clone()
	remote.Synced = true
	gw.queryResult = []*mood.Entry{remote}

	recent, err := svc.LoadRecentMoods(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.True(t, recent[0].Synced)
}

func TestLoadRecentMoodsSortAndCap(t *testing.T) {
	clk := newClock()
	var remote []*mood.Entry
	for i := 0; i < 6; i++ {
		e, err := mood.NewLocalEntry("user-1", 3, "", clk.t.Add(-time.Duration(i)*time.Hour))
		require.NoError(t, err)
		e.Synced = true
		remote = append(remote, e)
	}
	gw := &fakeGateway{queryResult: remote}
	svc, _ := newService(t, gw, clk)

	// Two check-ins per day: days=2 caps the window at 4 entries.
	recent, err := svc.LoadRecentMoods(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	for i := 1; i < len(recent); i++ {
		require.False(t, recent[i-1].CreatedAt.Before(recent[i].CreatedAt),
			"entries must be newest first")
	}
}

func TestSyncOfflineMoodsPartialFailure(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, st := newService(t, gw, clk)

	var poisoned string
	for i, note := range []string{"one", "two", "three"} {
		e, err := svc.AddMoodEntry(context.Background(), 3, note)
		require.NoError(t, err)
		if i == 1 {
			poisoned = e.ID
		}
		clk.advance(time.Minute)
	}

	gw.insertErr = nil
	gw.upsertErr = func(e *mood.Entry) error {
		if e.ID == poisoned {
			return gateway.ErrRejected
		}
		return nil
	}

	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.SyncedCount)
	require.Len(t, report.Errors, 1)
	require.Zero(t, report.Skipped)
	require.Empty(t, report.Stalled)

	count, err := st.Count()
	require.NoError(t, err)
	require.Equal(t, 1, count, "only the failed entry stays queued")
}

func TestSyncPreservesLocalID(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	entry, err := svc.AddMoodEntry(context.Background(), 4, "")
	require.NoError(t, err)
	require.False(t, entry.Synced)

	gw.insertErr = nil
	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.SyncedCount)

	// The loaded copy flips to synced but keeps its locally minted id.
	require.True(t, entry.Synced)
	require.True(t, strings.HasPrefix(entry.ID, mood.LocalIDPrefix))
}

func TestSyncRespectsBackoff(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	_, err := svc.AddMoodEntry(context.Background(), 3, "")
	require.NoError(t, err)

	gw.insertErr = nil
	gw.upsertErr = func(*mood.Entry) error { return gateway.ErrUnreachable }

	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	require.Equal(t, 1, gw.upsertCalls)

	// Immediate re-drain: the backoff window has not elapsed, so the item
	// is skipped without touching the wire.
	report, err = svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Skipped)
	require.Empty(t, report.Errors)
	require.Equal(t, 1, gw.upsertCalls)

	// Past the window, the retry goes out and succeeds.
	clk.advance(DefaultBackoffBase + time.Second)
	gw.upsertErr = nil
	report, err = svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.SyncedCount)
	require.Equal(t, 2, gw.upsertCalls)
}

func TestSyncStallsAtCeilingAndRetryStalledRecovers(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	st, err := store.NewSQLiteStore(nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := New(gw, st, nil, Config{
		UserID:      "user-1",
		MaxAttempts: 2,
		Now:         clk.now,
	})
	require.NoError(t, err)

	entry, err := svc.AddMoodEntry(context.Background(), 3, "")
	require.NoError(t, err)

	gw.insertErr = nil
	gw.upsertErr = func(*mood.Entry) error { return gateway.ErrUnreachable }

	// Two failed attempts exhaust the ceiling.
	for i := 0; i < 2; i++ {
		report, err := svc.SyncOfflineMoods(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
		clk.advance(time.Hour)
	}

	// A further drain no longer retries: the entry is reported stalled.
	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Equal(t, []string{entry.ID}, report.Stalled)
	require.Equal(t, 2, gw.upsertCalls)

	// RetryStalled resets the bookkeeping and drains the entry through.
	gw.upsertErr = nil
	report, err = svc.RetryStalled(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.SyncedCount)
	require.Empty(t, report.Stalled)

	count, err := st.Count()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestSyncStopsOnUnauthenticated(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	for i := 0; i < 3; i++ {
		_, err := svc.AddMoodEntry(context.Background(), 3, "")
		require.NoError(t, err)
		clk.advance(time.Minute)
	}

	gw.insertErr = nil
	gw.upsertErr = func(*mood.Entry) error { return gateway.ErrUnauthenticated }

	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.SyncedCount)
	require.Len(t, report.Errors, 1, "a dead session must stop the pass, not burn the queue")
	require.Equal(t, 1, gw.upsertCalls)
}

func TestSyncDrainsOldestFirst(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	var ids []string
	for i := 0; i < 3; i++ {
		e, err := svc.AddMoodEntry(context.Background(), 3, "")
		require.NoError(t, err)
		ids = append(ids, e.ID)
		clk.advance(time.Minute)
	}

	var order []string
	gw.insertErr = nil
	gw.upsertErr = func(e *mood.Entry) error {
		order = append(order, e.ID)
		return nil
	}

	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.SyncedCount)
	require.Equal(t, ids, order)
}

func TestCalculateTrendDegradesToLocal(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{
		insertErr: gateway.ErrUnreachable,
		queryErr:  gateway.ErrUnreachable,
	}
	svc, _ := newService(t, gw, clk)

	for _, v := range []int{2, 4} {
		_, err := svc.AddMoodEntry(context.Background(), v, "")
		require.NoError(t, err)
		clk.advance(time.Minute)
	}

	result, err := svc.CalculateTrend(context.Background(), mood.PeriodWeek)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	require.InDelta(t, 3.0, result.Average, 0.001)
}

func TestCalculateStreakFromLoadedWindow(t *testing.T) {
	clk := newClock()
	var remote []*mood.Entry
	for i := 0; i < 3; i++ {
		e, err := mood.NewLocalEntry("user-1", 4, "", clk.t.AddDate(0, 0, -i))
		require.NoError(t, err)
		e.Synced = true
		remote = append(remote, e)
	}
	gw := &fakeGateway{queryResult: remote}
	svc, _ := newService(t, gw, clk)

	_, err := svc.LoadRecentMoods(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 3, svc.CalculateStreak())
}

func TestDetectCrisisKeywords(t *testing.T) {
	svc, _ := newService(t, &fakeGateway{}, newClock())

	result := svc.DetectCrisisKeywords("I feel hopeless lately")
	require.True(t, result.Detected)

	result = svc.DetectCrisisKeywords("lovely weather today")
	require.False(t, result.Detected)
}

func TestStatus(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	entry, err := svc.AddMoodEntry(context.Background(), 4, "")
	require.NoError(t, err)

	st := svc.Status()
	require.NotNil(t, st.CurrentMood)
	require.Equal(t, entry.ID, st.CurrentMood.ID)
	require.Equal(t, 1, st.PendingCount)
	require.Zero(t, st.StalledCount)
	require.True(t, st.LastSyncedAt.IsZero())
	require.Equal(t, 1, st.StreakDays)

	gw.insertErr = nil
	report, err := svc.SyncOfflineMoods(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.SyncedCount)

	st = svc.Status()
	require.Zero(t, st.PendingCount)
	require.False(t, st.LastSyncedAt.IsZero())
}

func TestStatusColdStartSnapshot(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{}
	st, err := store.NewSQLiteStore(nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	first, err := New(gw, st, nil, Config{UserID: "user-1", Now: clk.now})
	require.NoError(t, err)
	entry, err := first.AddMoodEntry(context.Background(), 5, "")
	require.NoError(t, err)

	// A fresh service over the same store serves the snapshot before any
	// window has been loaded.
	second, err := New(gw, st, nil, Config{UserID: "user-1", Now: clk.now})
	require.NoError(t, err)
	status := second.Status()
	require.NotNil(t, status.CurrentMood)
	require.Equal(t, entry.ID, status.CurrentMood.ID)
}

func TestSyncCancelledContext(t *testing.T) {
	clk := newClock()
	gw := &fakeGateway{insertErr: gateway.ErrUnreachable}
	svc, _ := newService(t, gw, clk)

	_, err := svc.AddMoodEntry(context.Background(), 3, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gw.insertErr = nil
	_, err = svc.SyncOfflineMoods(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, gw.upsertCalls)
}

func TestSuggestTriggers(t *testing.T) {
	svc, _ := newService(t, &fakeGateway{}, newClock())

	tags := svc.SuggestTriggers("argued with my boss about the deadline")
	require.Contains(t, tags, "work")
}
