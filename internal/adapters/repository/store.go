// Package repository defines the resume entry store interface and errors.
package repository

import (
	"context"

	"github.com/pkoh123/carematch-ai/internal/domain/resume"
)

// Store provides keyed access to a session's resume entries.
//
// SetAll replaces the whole collection; UpdateOne merges a patch into the
// entry with the given id and is a no-op when the id is unknown, which is
// what makes late parse callbacks for removed entries harmless.
type Store interface {
	// SetAll replaces the entire collection, preserving the given order.
	SetAll(ctx context.Context, entries []resume.Entry)

	// Add appends an entry to the collection.
	Add(ctx context.Context, entry resume.Entry)

	// UpdateOne merges patch into the entry matching id, leaving all other
	// entries untouched. Returns false when id is not tracked.
	UpdateOne(ctx context.Context, id string, patch resume.Patch) bool

	// Get returns the entry with the given id.
	Get(ctx context.Context, id string) (resume.Entry, error)

	// List returns all entries in insertion order.
	List(ctx context.Context) []resume.Entry

	// Remove deletes the entry with the given id, any status.
	// Returns false when id is not tracked.
	Remove(ctx context.Context, id string) bool

	// Count returns the number of tracked entries.
	Count(ctx context.Context) int

	// Clear drops all entries.
	Clear(ctx context.Context)
}
