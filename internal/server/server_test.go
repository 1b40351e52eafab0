package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/lvocabulary78-netizen/Stride/internal/admin"
	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/dialogue"
	"github.com/lvocabulary78-netizen/Stride/internal/query"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

func newTestHandler(t *testing.T) (http.Handler, *store.FileStore) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "glossary.json"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	admins := auth.NewAllowList([]string{"admin-1"})
	srv := New("0",
		dialogue.NewEngine(s, admins, nil),
		query.NewResolver(s),
		admin.NewService(s, admins, nil),
		s, nil)
	return srv.Handler(), s
}

func postMessage(t *testing.T, h http.Handler, actorID, text string, choice bool) (*httptest.ResponseRecorder, messageResponse) {
	t.Helper()
	body, _ := json.Marshal(messageRequest{Text: text, Choice: choice})
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader(body))
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp messageResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestMessageRequiresActor(t *testing.T) {
	h, _ := newTestHandler(t)

	w, _ := postMessage(t, h, "", "cat", false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStudentLookupRoute(t *testing.T) {
	h, s := newTestHandler(t)
	s.Upsert(context.Background(), store.UpsertParams{Term: "cat", Meaning: "a small feline"})

	w, resp := postMessage(t, h, "student-1", "Cat, fox", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp.Result == nil {
		t.Fatal("expected a lookup result")
	}
	if len(resp.Result.Matches) != 1 || resp.Result.Matches[0].Term != "cat" {
		t.Errorf("unexpected matches: %+v", resp.Result.Matches)
	}
	if len(resp.Result.Unmatched) != 1 || resp.Result.Unmatched[0] != "fox" {
		t.Errorf("unexpected unmatched: %+v", resp.Result.Unmatched)
	}
}

func TestAddDialogueOverHTTP(t *testing.T) {
	h, s := newTestHandler(t)

	w, resp := postMessage(t, h, "admin-1", "/add", false)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", w.Code)
	}
	if resp.Reply == nil || resp.Reply.Kind != dialogue.KindPrompt {
		t.Fatalf("expected prompt reply, got %+v", resp.Reply)
	}

	// With the session open, plain text goes to the engine.
	postMessage(t, h, "admin-1", "happy", false)
	postMessage(t, h, "admin-1", "feeling joy", false)
	_, resp = postMessage(t, h, "admin-1", "She felt happy.", false)
	if resp.Reply == nil || resp.Reply.Kind != dialogue.KindComplete {
		t.Fatalf("expected completion, got %+v", resp.Reply)
	}

	got, _ := s.Get(context.Background(), "happy")
	if got == nil || got.Meaning != "feeling joy" {
		t.Fatalf("entry not committed: %+v", got)
	}
}

func TestCollisionChoiceOverHTTP(t *testing.T) {
	h, s := newTestHandler(t)
	s.Upsert(context.Background(), store.UpsertParams{Term: "happy", Meaning: "old"})

	postMessage(t, h, "admin-1", "/add", false)
	_, resp := postMessage(t, h, "admin-1", "happy", false)
	if resp.Reply == nil || resp.Reply.Kind != dialogue.KindChoices {
		t.Fatalf("expected choices reply, got %+v", resp.Reply)
	}

	_, resp = postMessage(t, h, "admin-1", dialogue.ChoiceCancel, true)
	if resp.Reply == nil || resp.Reply.Kind != dialogue.KindInfo {
		t.Fatalf("expected cancellation info, got %+v", resp.Reply)
	}

	got, _ := s.Get(context.Background(), "happy")
	if got.Meaning != "old" {
		t.Errorf("store changed by cancelled dialogue: %q", got.Meaning)
	}
}

func TestUnprivilegedAddForbidden(t *testing.T) {
	h, _ := newTestHandler(t)

	w, _ := postMessage(t, h, "student-1", "/add", false)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestGetEntry(t *testing.T) {
	h, s := newTestHandler(t)
	s.Upsert(context.Background(), store.UpsertParams{Term: "cat", Meaning: "a small feline"})

	req := httptest.NewRequest(http.MethodGet, "/v1/entries/CAT", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/entries/fox", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDeleteTerm(t *testing.T) {
	h, s := newTestHandler(t)
	s.Upsert(context.Background(), store.UpsertParams{Term: "cat", Meaning: "a small feline"})

	req := httptest.NewRequest(http.MethodDelete, "/v1/terms/cat", nil)
	req.Header.Set("X-Actor-ID", "admin-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Deleting again is a miss.
	req = httptest.NewRequest(http.MethodDelete, "/v1/terms/cat", nil)
	req.Header.Set("X-Actor-ID", "admin-1")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportForbiddenForStudents(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/export", nil)
	req.Header.Set("X-Actor-ID", "student-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestExportAttachment(t *testing.T) {
	h, s := newTestHandler(t)
	s.Upsert(context.Background(), store.UpsertParams{Term: "cat", Meaning: "a small feline"})

	req := httptest.NewRequest(http.MethodGet, "/v1/export", nil)
	req.Header.Set("X-Actor-ID", "admin-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected an attachment disposition")
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("export body not valid JSON: %v", err)
	}
	if _, ok := doc["cat"]; !ok {
		t.Errorf("export missing entry: %s", w.Body.String())
	}
}

func TestStatsOverHTTP(t *testing.T) {
	h, s := newTestHandler(t)
	s.Upsert(context.Background(), store.UpsertParams{Term: "cat", Meaning: "m", Examples: []string{"x", "y"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("X-Actor-ID", "admin-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var st struct {
		Count         int `json:"count"`
		TotalExamples int `json:"total_examples"`
	}
	json.Unmarshal(w.Body.Bytes(), &st)
	if st.Count != 1 || st.TotalExamples != 2 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestEmptyGlossaryMessage(t *testing.T) {
	h, _ := newTestHandler(t)

	_, resp := postMessage(t, h, "student-1", "anything", false)
	if resp.Result == nil || !resp.Result.EmptyGlossary {
		t.Fatalf("expected the empty-glossary outcome, got %+v", resp.Result)
	}
}
