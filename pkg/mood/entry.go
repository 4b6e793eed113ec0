// Package mood defines the core mood-entry model shared by the store,
// the remote gateway, and the wellness service.
package mood

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Value bounds for a mood self-report.
const (
	MinValue = 1
	MaxValue = 5
)

// LocalIDPrefix marks ids minted on this device before the remote backend
// has confirmed the entry. The prefix survives reconciliation: a synced
// entry keeps its local id rather than adopting a remote-assigned one.
const LocalIDPrefix = "local-"

// ErrInvalidValue is returned when a mood value falls outside [1,5].
var ErrInvalidValue = errors.New("mood: value must be between 1 and 5")

// Entry is a single timestamped self-report of affect.
type Entry struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	Value      int      `json:"value"`
	Note       string   `json:"note,omitempty"`
	Triggers   []string `json:"triggers,omitempty"`
	Activities []string `json:"activities,omitempty"`

	// ClientToken is a stable idempotency token generated with the entry.
	// The remote backend treats it as the conflict/merge key, so a retried
	// upsert after a lost acknowledgment cannot create a duplicate record.
	ClientToken string `json:"clientToken"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Synced    bool      `json:"synced"`
}

// ValidateValue checks the ordinal bounds before any persistence attempt.
func ValidateValue(v int) error {
	if v < MinValue || v > MaxValue {
		return fmt.Errorf("%w (got %d)", ErrInvalidValue, v)
	}
	return nil
}

// NewLocalEntry mints an unsynced entry with a locally generated id and a
// fresh client token. The caller owns setting Synced after a remote insert.
func NewLocalEntry(userID string, value int, note string, now time.Time) (*Entry, error) {
	if err := ValidateValue(value); err != nil {
		return nil, err
	}
	return &Entry{
		ID:          LocalIDPrefix + uuid.NewString(),
		UserID:      userID,
		Value:       value,
		Note:        note,
		ClientToken: uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Synced:      false,
	}, nil
}

// Clone returns a deep copy so callers can hand entries across goroutines
// without sharing slice backing arrays.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Triggers != nil {
		c.Triggers = append([]string(nil), e.Triggers...)
	}
	if e.Activities != nil {
		c.Activities = append([]string(nil), e.Activities...)
	}
	return &c
}
