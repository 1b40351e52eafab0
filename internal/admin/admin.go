// Package admin implements the privileged single-shot glossary
// operations: delete, list, stats, direct upsert and backup export.
// These are plain request/response calls with no dialogue state.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/logging"
	"github.com/lvocabulary78-netizen/Stride/internal/model"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

// Service gates direct store operations behind the allow list.
type Service struct {
	store  store.Store
	admins *auth.AllowList
	logger *slog.Logger
}

// NewService creates the admin service. A nil logger disables logging.
func NewService(s store.Store, admins *auth.AllowList, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: s, admins: admins, logger: logger}
}

func (s *Service) authorize(actor auth.Actor, op string) error {
	if !s.admins.IsPrivileged(actor.ID) {
		s.logger.Warn("privileged operation denied", "op", op, "actor", actor.ID)
		return auth.ErrPermissionDenied
	}
	return nil
}

// Delete removes an entry. A miss is reported as (false, nil), not as
// an error.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, term string) (bool, error) {
	if err := s.authorize(actor, "delete"); err != nil {
		return false, err
	}
	removed, err := s.store.Delete(ctx, term)
	if err != nil {
		return false, fmt.Errorf("delete %q: %w", term, err)
	}
	if removed {
		s.logger.Info("entry deleted", "actor", actor.ID, "term", model.Normalize(term))
	}
	return removed, nil
}

// Upsert writes an entry directly, bypassing the dialogue. Used by the
// one-shot CLI.
func (s *Service) Upsert(ctx context.Context, actor auth.Actor, p store.UpsertParams) (*model.Entry, error) {
	if err := s.authorize(actor, "upsert"); err != nil {
		return nil, err
	}
	return s.store.Upsert(ctx, p)
}

// ListTerms returns all terms in lexicographic order. Pagination of the
// output is the caller's concern.
func (s *Service) ListTerms(ctx context.Context, actor auth.Actor) ([]string, error) {
	if err := s.authorize(actor, "list"); err != nil {
		return nil, err
	}
	return s.store.ListTerms(ctx)
}

// Stats returns glossary-wide statistics.
func (s *Service) Stats(ctx context.Context, actor auth.Actor) (*model.Stats, error) {
	if err := s.authorize(actor, "stats"); err != nil {
		return nil, err
	}
	return s.store.Stats(ctx)
}

// ExportSnapshot returns the raw durable document for backup delivery.
func (s *Service) ExportSnapshot(ctx context.Context, actor auth.Actor) ([]byte, error) {
	if err := s.authorize(actor, "export"); err != nil {
		return nil, err
	}
	b, err := s.store.ExportSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	s.logger.Info("snapshot exported", "actor", actor.ID, "bytes", len(b))
	return b, nil
}

// Welcome returns the role-dependent help text for a start interaction.
func (s *Service) Welcome(actor auth.Actor) string {
	name := actor.Name
	if name == "" {
		name = actor.ID
	}
	if s.admins.IsPrivileged(actor.ID) {
		return fmt.Sprintf(
			"Welcome %s!\n\n"+
				"Look up a word by typing it; separate multiple words with commas.\n\n"+
				"Admin commands:\n"+
				"  /add     add or update a word\n"+
				"  /delete  remove a word\n"+
				"  /list    show all words\n"+
				"  /stats   glossary statistics\n"+
				"  /backup  download a glossary backup",
			name)
	}
	return fmt.Sprintf(
		"Welcome %s!\n\n"+
			"Type any word to get its meaning and examples.\n"+
			"Separate multiple words with commas, e.g. happy, sad, excited.\n"+
			"Searches are case-insensitive.",
		name)
}
