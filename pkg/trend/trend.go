// Package trend computes aggregate mood statistics over a bounded window.
// All functions are pure: input entries in, derived numbers out.
package trend

import (
	"math"
	"sort"
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

// Trend is the derived view over one period's entries. Average, extremes,
// and improvement rate are never persisted; they are recomputed on demand.
type Trend struct {
	Period          mood.Period   `json:"period"`
	Average         float64       `json:"average"`
	Entries         []*mood.Entry `json:"entries"` // ascending by CreatedAt
	LowestDay       time.Time     `json:"lowestDay"`
	HighestDay      time.Time     `json:"highestDay"`
	ImprovementRate int           `json:"improvementRate"`
}

// Calculate derives a Trend from entries restricted to [now-window, now].
// An empty window yields average 0, rate 0, and both extremes set to now
// rather than an error.
func Calculate(entries []*mood.Entry, period mood.Period, now time.Time) Trend {
	start, end := period.Window(now)

	var windowed []*mood.Entry
	for _, e := range entries {
		if e.CreatedAt.Before(start) || e.CreatedAt.After(end) {
			continue
		}
		windowed = append(windowed, e)
	}
	sort.SliceStable(windowed, func(i, j int) bool {
		return windowed[i].CreatedAt.Before(windowed[j].CreatedAt)
	})

	t := Trend{
		Period:     period,
		Entries:    windowed,
		LowestDay:  now,
		HighestDay: now,
	}
	if len(windowed) == 0 {
		return t
	}

	sum := 0
	lowest, highest := windowed[0], windowed[0]
	for _, e := range windowed {
		sum += e.Value
		// Strict comparisons keep ties on the earliest occurrence.
		if e.Value < lowest.Value {
			lowest = e
		}
		if e.Value > highest.Value {
			highest = e
		}
	}

	t.Average = round1(float64(sum) / float64(len(windowed)))
	t.LowestDay = lowest.CreatedAt
	t.HighestDay = highest.CreatedAt
	t.ImprovementRate = improvementRate(windowed)
	return t
}

// improvementRate compares the mean of the second half against the first,
// split at floor(n/2). Defined as 0 for fewer than 2 entries or a zero
// first-half average, guarding the division.
func improvementRate(entries []*mood.Entry) int {
	if len(entries) < 2 {
		return 0
	}
	mid := len(entries) / 2
	firstAvg := meanValue(entries[:mid])
	secondAvg := meanValue(entries[mid:])
	if firstAvg == 0 {
		return 0
	}
	return int(math.Round(((secondAvg - firstAvg) / firstAvg) * 100))
}

func meanValue(entries []*mood.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Value
	}
	return float64(sum) / float64(len(entries))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
