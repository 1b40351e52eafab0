// Package query implements stateless multi-term lookup over the store.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/lvocabulary78-netizen/Stride/internal/model"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

// Result is the outcome of resolving one raw query.
type Result struct {
	Matches   []model.Entry `json:"matches"`
	Unmatched []string      `json:"unmatched,omitempty"`

	// EmptyGlossary reports that the store holds no entries at all,
	// distinct from a query that simply missed. Transports render a
	// different message for it.
	EmptyGlossary bool `json:"empty_glossary,omitempty"`
}

// Resolver looks up one or more comma-separated terms.
type Resolver struct {
	store store.Store
}

// NewResolver creates a resolver over the given store.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve splits rawQuery on commas, normalizes each token and looks
// every distinct one up. Matches and misses both preserve query order.
// Lookup is exact on the normalized term; no partial or fuzzy matching.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) (*Result, error) {
	stats, err := r.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	if stats.Count == 0 {
		return &Result{EmptyGlossary: true}, nil
	}

	res := &Result{}
	for _, term := range Tokens(rawQuery) {
		entry, err := r.store.Get(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", term, err)
		}
		if entry != nil {
			res.Matches = append(res.Matches, *entry)
		} else {
			res.Unmatched = append(res.Unmatched, term)
		}
	}
	return res, nil
}

// Tokens splits a raw query on commas into distinct normalized terms,
// dropping empties and preserving first-occurrence order.
func Tokens(rawQuery string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Split(rawQuery, ",") {
		tok = model.Normalize(tok)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
