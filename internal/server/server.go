// Package server exposes the glossary core over HTTP. It is a thin
// transport: it routes inbound messages to the dialogue engine when the
// actor has an open session and to the query resolver otherwise, and
// maps admin endpoints onto the privileged one-shot operations. Actor
// identity comes from the X-Actor-ID header; the front in charge of the
// chat platform is trusted to have authenticated it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lvocabulary78-netizen/Stride/internal/admin"
	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/dialogue"
	"github.com/lvocabulary78-netizen/Stride/internal/logging"
	"github.com/lvocabulary78-netizen/Stride/internal/query"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

// Server hosts the HTTP transport.
type Server struct {
	engine   *dialogue.Engine
	resolver *query.Resolver
	admin    *admin.Service
	store    store.Store
	logger   *slog.Logger

	srv *http.Server
}

// New creates the HTTP server on the given port.
func New(port string, engine *dialogue.Engine, resolver *query.Resolver, adminSvc *admin.Service, st store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:   engine,
		resolver: resolver,
		admin:    adminSvc,
		store:    st,
		logger:   logger,
	}
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler builds the router. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})

	r.Post("/v1/messages", s.handleMessage)
	r.Get("/v1/entries/{term}", s.handleGetEntry)
	r.Get("/v1/terms", s.handleListTerms)
	r.Delete("/v1/terms/{term}", s.handleDeleteTerm)
	r.Get("/v1/stats", s.handleStats)
	r.Get("/v1/export", s.handleExport)

	return r
}

// ListenAndServe blocks serving HTTP until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type messageRequest struct {
	Text   string `json:"text"`
	Choice bool   `json:"choice,omitempty"`
}

// messageResponse carries either a dialogue reply or a lookup result.
type messageResponse struct {
	Reply  *dialogue.Reply `json:"reply,omitempty"`
	Result *query.Result   `json:"result,omitempty"`
}

func (s *Server) handleMessage(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing X-Actor-ID header")
		return
	}

	var body messageRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, result, err := s.route(req.Context(), actor, body)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Reply: reply, Result: result})
}

// route implements the inbound routing contract: commands first, then
// open-session messages to the engine, everything else to the resolver.
func (s *Server) route(ctx context.Context, actor auth.Actor, body messageRequest) (*dialogue.Reply, *query.Result, error) {
	text := strings.TrimSpace(body.Text)

	if body.Choice {
		reply, err := s.engine.HandleChoice(ctx, actor, text)
		return reply, nil, err
	}

	switch cmd, arg := splitCommand(text); cmd {
	case "/start":
		return &dialogue.Reply{Kind: dialogue.KindInfo, Text: s.admin.Welcome(actor)}, nil, nil
	case "/add":
		reply, err := s.engine.Start(ctx, actor)
		return reply, nil, err
	case "/cancel":
		reply, err := s.engine.Cancel(ctx, actor)
		return reply, nil, err
	case "/delete":
		return s.deleteReply(ctx, actor, arg)
	case "/list":
		terms, err := s.admin.ListTerms(ctx, actor)
		if err != nil {
			return nil, nil, err
		}
		msg := "The glossary is empty."
		if len(terms) > 0 {
			msg = fmt.Sprintf("%d term(s):\n%s", len(terms), strings.Join(terms, "\n"))
		}
		return &dialogue.Reply{Kind: dialogue.KindInfo, Text: msg}, nil, nil
	case "/backup":
		// File delivery is not expressible in a message reply; point the
		// front at the export endpoint instead.
		if _, err := s.admin.ExportSnapshot(ctx, actor); err != nil {
			return nil, nil, err
		}
		return &dialogue.Reply{Kind: dialogue.KindInfo, Text: "Backup is ready. Download it from GET /v1/export."}, nil, nil
	case "/stats":
		st, err := s.admin.Stats(ctx, actor)
		if err != nil {
			return nil, nil, err
		}
		msg := fmt.Sprintf("Terms: %d\nExamples: %d\nAvg examples per term: %.1f",
			st.Count, st.TotalExamples, st.AvgExamplesPerTerm)
		return &dialogue.Reply{Kind: dialogue.KindInfo, Text: msg}, nil, nil
	}

	if s.engine.HasOpenSession(actor.ID) {
		reply, err := s.engine.HandleMessage(ctx, actor, body.Text)
		return reply, nil, err
	}

	result, err := s.resolver.Resolve(ctx, body.Text)
	return nil, result, err
}

func (s *Server) deleteReply(ctx context.Context, actor auth.Actor, term string) (*dialogue.Reply, *query.Result, error) {
	if term == "" {
		return &dialogue.Reply{Kind: dialogue.KindError, Text: "Usage: /delete <term>"}, nil, nil
	}
	removed, err := s.admin.Delete(ctx, actor, term)
	if err != nil {
		return nil, nil, err
	}
	if !removed {
		return &dialogue.Reply{Kind: dialogue.KindInfo, Text: fmt.Sprintf("%q is not in the glossary.", term)}, nil, nil
	}
	return &dialogue.Reply{Kind: dialogue.KindInfo, Text: fmt.Sprintf("Deleted %q.", term)}, nil, nil
}

func (s *Server) handleGetEntry(w http.ResponseWriter, req *http.Request) {
	term := chi.URLParam(req, "term")
	entry, err := s.store.Get(req.Context(), term)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "term not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListTerms(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing X-Actor-ID header")
		return
	}
	terms, err := s.admin.ListTerms(req.Context(), actor)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"terms": terms})
}

func (s *Server) handleDeleteTerm(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing X-Actor-ID header")
		return
	}
	removed, err := s.admin.Delete(req.Context(), actor, chi.URLParam(req, "term"))
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	status := http.StatusOK
	if !removed {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]bool{"deleted": removed})
}

func (s *Server) handleStats(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing X-Actor-ID header")
		return
	}
	st, err := s.admin.Stats(req.Context(), actor)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleExport(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing X-Actor-ID header")
		return
	}
	b, err := s.admin.ExportSnapshot(req.Context(), actor)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="glossary-backup.json"`)
	w.Write(b)
}

func (s *Server) writeOpError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrPermissionDenied) {
		writeError(w, http.StatusForbidden, "this operation is only available to admins")
		return
	}
	s.logger.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func actorFrom(req *http.Request) (auth.Actor, bool) {
	id := strings.TrimSpace(req.Header.Get("X-Actor-ID"))
	if id == "" {
		return auth.Actor{}, false
	}
	return auth.Actor{ID: id, Name: req.Header.Get("X-Actor-Name")}, true
}

func splitCommand(text string) (cmd, arg string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ = strings.Cut(text, " ")
	return cmd, strings.TrimSpace(arg)
}
