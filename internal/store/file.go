package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lvocabulary78-netizen/Stride/internal/model"
)

// ErrCorruptStorage is returned when the persisted document cannot be
// parsed as a glossary mapping.
var ErrCorruptStorage = errors.New("corrupt storage")

// ErrWriteFailure is returned when the document cannot be replaced on
// disk. Surfaced to the caller as-is; never retried automatically.
var ErrWriteFailure = errors.New("storage write failure")

// entryDoc is the durable form of an entry. The normalized term is the
// document key, so it is not repeated inside the value.
type entryDoc struct {
	Meaning  string   `json:"meaning"`
	Examples []string `json:"examples"`
}

// FileStore implements Store backed by a single indented JSON document.
// A single mutex serializes every read-modify-write-save sequence so
// two concurrent edits cannot interleave and silently lose an update.
type FileStore struct {
	path string

	mu      sync.Mutex
	entries map[string]entryDoc
}

// NewFileStore opens or creates the glossary document at the given
// path. A missing document is an empty glossary; content that does not
// parse as a term mapping fails with ErrCorruptStorage.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	s := &FileStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.entries = make(map[string]entryDoc)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	entries := make(map[string]entryDoc)
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptStorage, s.path, err)
	}
	s.entries = entries
	return nil
}

// save serializes the full mapping and replaces the document through a
// temp-file rename, so a crash mid-write cannot leave a torn document.
// Callers must hold s.mu.
func (s *FileStore) save() error {
	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".glossary-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, term string) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = model.Normalize(term)
	doc, ok := s.entries[term]
	if !ok {
		return nil, nil
	}
	return docToEntry(term, doc), nil
}

func (s *FileStore) Upsert(ctx context.Context, p UpsertParams) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := model.Normalize(p.Term)
	if term == "" {
		return nil, fmt.Errorf("upsert: term is empty")
	}

	prev, existed := s.entries[term]
	s.entries[term] = entryDoc{
		Meaning:  p.Meaning,
		Examples: append([]string(nil), p.Examples...),
	}
	if err := s.save(); err != nil {
		// Keep memory and disk consistent: roll the mapping back.
		if existed {
			s.entries[term] = prev
		} else {
			delete(s.entries, term)
		}
		return nil, err
	}
	return docToEntry(term, s.entries[term]), nil
}

func (s *FileStore) Delete(ctx context.Context, term string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = model.Normalize(term)
	prev, ok := s.entries[term]
	if !ok {
		return false, nil
	}
	delete(s.entries, term)
	if err := s.save(); err != nil {
		s.entries[term] = prev
		return false, err
	}
	return true, nil
}

func (s *FileStore) ListTerms(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := make([]string, 0, len(s.entries))
	for term := range s.entries {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms, nil
}

func (s *FileStore) Stats(ctx context.Context) (*model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &model.Stats{Count: len(s.entries)}
	for _, doc := range s.entries {
		st.TotalExamples += len(doc.Examples)
	}
	if st.Count > 0 {
		st.AvgExamplesPerTerm = float64(st.TotalExamples) / float64(st.Count)
	}
	return st, nil
}

func (s *FileStore) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// Nothing persisted yet: snapshot the (empty or unsaved) mapping.
		b, err = json.MarshalIndent(s.entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return append(b, '\n'), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return b, nil
}

func (s *FileStore) Close() error {
	return nil
}

// Path returns the durable document path.
func (s *FileStore) Path() string {
	return s.path
}

func docToEntry(term string, doc entryDoc) *model.Entry {
	return &model.Entry{
		Term:     term,
		Meaning:  doc.Meaning,
		Examples: append([]string(nil), doc.Examples...),
	}
}
