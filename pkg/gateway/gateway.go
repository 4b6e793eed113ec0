// Package gateway abstracts the managed backend's mood-entry collection.
// Implementations classify every failure into one of three typed errors and
// never swallow them; deciding what a failure means (queue locally, degrade
// a read) is the wellness service's job.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

// Typed gateway errors. Implementations wrap these so callers can branch
// with errors.Is.
var (
	// ErrUnauthenticated means no active user context exists for the call.
	ErrUnauthenticated = errors.New("gateway: unauthenticated")
	// ErrUnreachable means the backend could not be reached or timed out.
	ErrUnreachable = errors.New("gateway: unreachable")
	// ErrRejected means the backend refused the request.
	ErrRejected = errors.New("gateway: rejected")
)

// Gateway is the remote interface consumed by the wellness engine.
type Gateway interface {
	// Insert creates an entry remotely and returns the confirmed record.
	Insert(ctx context.Context, entry *mood.Entry) (*mood.Entry, error)
	// Query returns a user's entries within [start, end].
	Query(ctx context.Context, userID string, start, end time.Time) ([]*mood.Entry, error)
	// Upsert creates or merges an entry, keyed on its client token so a
	// retried upsert after a lost acknowledgment cannot duplicate it.
	Upsert(ctx context.Context, entry *mood.Entry) error
}
