// Package streak counts consecutive calendar days of check-ins.
package streak

import (
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

// Count walks backward from today one calendar day at a time and counts
// days that have at least one entry. Time of day is ignored; the first day
// without an entry ends the streak, so entries older than a gap never count.
// Entries may arrive in any order.
func Count(entries []*mood.Entry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[dayKey(e.CreatedAt)] = true
	}

	streak := 0
	for cursor := now; days[dayKey(cursor)]; cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
