// Package dialogue implements the multi-step add/update state machine
// and the per-actor session repository behind it.
package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/logging"
	"github.com/lvocabulary78-netizen/Stride/internal/model"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

// Engine drives the add/update dialogue. Each exported method takes an
// actor, advances that actor's session and returns the reply the
// transport should render. Steps are serialized under one mutex so a
// single actor can never be in two dialogue steps at once.
type Engine struct {
	store    store.Store
	admins   *auth.AllowList
	sessions *Sessions
	logger   *slog.Logger

	mu sync.Mutex
}

// NewEngine creates a dialogue engine. A nil logger disables logging.
func NewEngine(s store.Store, admins *auth.AllowList, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:    s,
		admins:   admins,
		sessions: NewSessions(),
		logger:   logger,
	}
}

// HasOpenSession reports whether the actor has an in-progress dialogue.
// The transport routes on this: open session -> engine, otherwise ->
// query resolver.
func (e *Engine) HasOpenSession(actorID string) bool {
	return e.sessions.Has(actorID)
}

// Start is the privileged entry point. It opens a fresh session at the
// term-collection stage, replacing any stale session for the actor.
// Unprivileged actors get auth.ErrPermissionDenied and no session.
func (e *Engine) Start(ctx context.Context, actor auth.Actor) (*Reply, error) {
	if !e.admins.IsPrivileged(actor.ID) {
		return nil, auth.ErrPermissionDenied
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.sessions.Begin(actor.ID)
	e.logger.Info("dialogue started", "session", sess.ID, "actor", actor.ID)
	return prompt("Add a word\n\nEnter the term you want to add. Send /cancel to abort."), nil
}

// HandleMessage advances the actor's open dialogue with free-text
// input. A message without an open session is a transport routing bug:
// it is logged and answered with an error reply (implicit cancel).
func (e *Engine) HandleMessage(ctx context.Context, actor auth.Actor, text string) (*Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.sessions.Get(actor.ID)
	if !ok {
		e.logger.Warn("dialogue message without open session", "actor", actor.ID)
		return &Reply{Kind: KindError, Text: "No dialogue in progress. Send /add to start one."}, nil
	}

	switch sess.Stage {
	case StageAwaitingTerm:
		return e.receiveTerm(ctx, sess, text)
	case StageAwaitingConfirm:
		// Free text while a choice is pending: repeat the choices.
		return e.confirmPrompt(ctx, sess)
	case StageAwaitingMeaning:
		return e.receiveMeaning(sess, text)
	case StageAwaitingExamples:
		return e.receiveExamples(ctx, actor, sess, text)
	}
	return nil, fmt.Errorf("session %s in unknown stage %d", sess.ID, sess.Stage)
}

// HandleChoice resolves an inline choice (ChoiceUpdate or ChoiceCancel)
// for the collision confirmation step.
func (e *Engine) HandleChoice(ctx context.Context, actor auth.Actor, data string) (*Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.sessions.Get(actor.ID)
	if !ok {
		e.logger.Warn("dialogue choice without open session", "actor", actor.ID, "choice", data)
		return &Reply{Kind: KindError, Text: "No dialogue in progress. Send /add to start one."}, nil
	}

	switch data {
	case ChoiceCancel:
		return e.cancel(actor), nil
	case ChoiceUpdate:
		if sess.Stage != StageAwaitingConfirm {
			return e.confirmPrompt(ctx, sess)
		}
		sess.Stage = StageAwaitingMeaning
		sess.touch()
		return prompt(fmt.Sprintf("Updating %q.\n\nEnter the new meaning:", sess.PendingTerm)), nil
	}

	e.logger.Warn("unknown dialogue choice", "session", sess.ID, "choice", data)
	return e.confirmPrompt(ctx, sess)
}

// Cancel aborts the actor's dialogue from any stage, discarding all
// pending fields. Cancelling with nothing open is still answered.
func (e *Engine) Cancel(ctx context.Context, actor auth.Actor) (*Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions.Get(actor.ID); !ok {
		return info("Nothing to cancel."), nil
	}
	return e.cancel(actor), nil
}

func (e *Engine) cancel(actor auth.Actor) *Reply {
	e.sessions.End(actor.ID)
	e.logger.Info("dialogue cancelled", "actor", actor.ID)
	return info("Operation cancelled. No changes were made.")
}

func (e *Engine) receiveTerm(ctx context.Context, sess *Session, text string) (*Reply, error) {
	term := model.Normalize(text)
	if term == "" {
		return prompt("The term cannot be empty. Enter the term you want to add:"), nil
	}

	existing, err := e.store.Get(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("check term %q: %w", term, err)
	}

	sess.PendingTerm = term
	sess.touch()

	if existing != nil {
		sess.Stage = StageAwaitingConfirm
		return &Reply{
			Kind: KindChoices,
			Text: fmt.Sprintf("The term %q already exists.\n\nCurrent meaning: %s\n\nDo you want to update it?", term, existing.Meaning),
			Choices: []Choice{
				{Label: "Yes, update", Data: ChoiceUpdate},
				{Label: "No, cancel", Data: ChoiceCancel},
			},
		}, nil
	}

	sess.Stage = StageAwaitingMeaning
	return prompt(fmt.Sprintf("Term: %q\n\nNow enter its meaning:", term)), nil
}

func (e *Engine) confirmPrompt(ctx context.Context, sess *Session) (*Reply, error) {
	text := fmt.Sprintf("The term %q already exists. Update it?", sess.PendingTerm)
	if existing, err := e.store.Get(ctx, sess.PendingTerm); err == nil && existing != nil {
		text = fmt.Sprintf("The term %q already exists.\n\nCurrent meaning: %s\n\nDo you want to update it?", sess.PendingTerm, existing.Meaning)
	}
	return &Reply{
		Kind: KindChoices,
		Text: text,
		Choices: []Choice{
			{Label: "Yes, update", Data: ChoiceUpdate},
			{Label: "No, cancel", Data: ChoiceCancel},
		},
	}, nil
}

func (e *Engine) receiveMeaning(sess *Session, text string) (*Reply, error) {
	meaning := strings.TrimSpace(text)
	if meaning == "" {
		return prompt("The meaning cannot be empty. Enter the meaning:"), nil
	}

	sess.PendingMeaning = meaning
	sess.Stage = StageAwaitingExamples
	sess.touch()
	return prompt("Now enter example sentences, one per line.\nSend an empty message to save without examples."), nil
}

func (e *Engine) receiveExamples(ctx context.Context, actor auth.Actor, sess *Session, text string) (*Reply, error) {
	examples := model.SplitExamples(text)

	entry, err := e.store.Upsert(ctx, store.UpsertParams{
		Term:     sess.PendingTerm,
		Meaning:  sess.PendingMeaning,
		Examples: examples,
	})
	if err != nil {
		// Session stays open so the actor can resend the examples once
		// storage recovers.
		return nil, fmt.Errorf("save %q: %w", sess.PendingTerm, err)
	}

	e.sessions.End(actor.ID)
	e.logger.Info("entry committed",
		"session", sess.ID,
		"actor", actor.ID,
		"term", entry.Term,
		"examples", len(entry.Examples),
	)

	return &Reply{
		Kind:  KindComplete,
		Text:  fmt.Sprintf("Saved %q with %d example(s). The term is now available to everyone.", entry.Term, len(entry.Examples)),
		Entry: entry,
	}, nil
}
