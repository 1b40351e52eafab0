package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.FileStore) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "glossary.json"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewResolver(s), s
}

func TestResolveOrderAndMisses(t *testing.T) {
	ctx := context.Background()
	r, s := newTestResolver(t)

	s.Upsert(ctx, store.UpsertParams{Term: "cat", Meaning: "a small feline"})
	s.Upsert(ctx, store.UpsertParams{Term: "dog", Meaning: "a loyal canine"})

	result, err := r.Resolve(ctx, "Cat, fox, DOG")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.EmptyGlossary {
		t.Fatal("glossary is not empty")
	}
	if len(result.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(result.Matches))
	}
	if result.Matches[0].Term != "cat" || result.Matches[1].Term != "dog" {
		t.Errorf("matches out of query order: %v", result.Matches)
	}
	if len(result.Unmatched) != 1 || result.Unmatched[0] != "fox" {
		t.Errorf("expected unmatched [fox], got %v", result.Unmatched)
	}
}

func TestResolveEmptyGlossary(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestResolver(t)

	result, err := r.Resolve(ctx, "anything")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.EmptyGlossary {
		t.Error("expected the empty-glossary outcome")
	}
	if len(result.Matches) != 0 || len(result.Unmatched) != 0 {
		t.Errorf("empty glossary must short-circuit, got %+v", result)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens(" Cat , dog,, CAT ,  , bird")
	want := []string{"cat", "dog", "bird"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTokensAllBlank(t *testing.T) {
	if got := Tokens(" , ,, "); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
