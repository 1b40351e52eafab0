// Package store provides the glossary storage interface and its JSON
// document implementation.
package store

import (
	"context"

	"github.com/lvocabulary78-netizen/Stride/internal/model"
)

// UpsertParams holds parameters for inserting or replacing an entry.
type UpsertParams struct {
	Term     string
	Meaning  string
	Examples []string
}

// Store defines the glossary storage interface.
type Store interface {
	// Get retrieves an entry by term. Returns nil when absent; a miss
	// is a normal negative result, not an error.
	Get(ctx context.Context, term string) (*model.Entry, error)

	// Upsert inserts a new entry or replaces an existing one wholesale
	// (meaning and examples together). Persists before returning.
	Upsert(ctx context.Context, p UpsertParams) (*model.Entry, error)

	// Delete removes an entry and reports whether anything was removed.
	// Persists only when a removal occurred.
	Delete(ctx context.Context, term string) (bool, error)

	// ListTerms returns all terms in lexicographic order.
	ListTerms(ctx context.Context) ([]string, error)

	// Stats returns glossary-wide statistics.
	Stats(ctx context.Context) (*model.Stats, error)

	// ExportSnapshot returns the raw bytes of the current durable
	// document, suitable for backup delivery.
	ExportSnapshot(ctx context.Context) ([]byte, error)

	// Close closes the store.
	Close() error
}
