package dialogue

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Stage identifies the current step of an add/update dialogue.
type Stage int

const (
	// StageAwaitingTerm: the next message is read as the candidate term.
	StageAwaitingTerm Stage = iota
	// StageAwaitingConfirm: the term collided with an existing entry and
	// the actor must choose between updating and cancelling.
	StageAwaitingConfirm
	// StageAwaitingMeaning: the next message is the meaning.
	StageAwaitingMeaning
	// StageAwaitingExamples: the next message holds example sentences,
	// one per line.
	StageAwaitingExamples
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingTerm:
		return "awaiting_term"
	case StageAwaitingConfirm:
		return "awaiting_confirm"
	case StageAwaitingMeaning:
		return "awaiting_meaning"
	case StageAwaitingExamples:
		return "awaiting_examples"
	}
	return "unknown"
}

// Session tracks one actor's in-progress dialogue. Fields accumulate
// across steps and are discarded on completion or cancellation.
type Session struct {
	ID             string
	ActorID        string
	Stage          Stage
	PendingTerm    string
	PendingMeaning string
	StartedAt      time.Time
	UpdatedAt      time.Time
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Sessions is the per-actor session repository. At most one session
// exists per actor; beginning a new one replaces any stale session.
type Sessions struct {
	mu      sync.Mutex
	entropy *rand.Rand
	open    map[string]*Session
}

// NewSessions creates an empty session repository.
func NewSessions() *Sessions {
	return &Sessions{
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		open:    make(map[string]*Session),
	}
}

// Begin creates a fresh session for the actor at StageAwaitingTerm,
// replacing any session already open for that actor.
func (r *Sessions) Begin(actorID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	sess := &Session{
		ID:        ulid.MustNew(ulid.Timestamp(now), r.entropy).String(),
		ActorID:   actorID,
		Stage:     StageAwaitingTerm,
		StartedAt: now,
		UpdatedAt: now,
	}
	r.open[actorID] = sess
	return sess
}

// Get returns the actor's open session, if any.
func (r *Sessions) Get(actorID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.open[actorID]
	return sess, ok
}

// End destroys the actor's session. Ending an absent session is a no-op.
func (r *Sessions) End(actorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.open, actorID)
}

// Has reports whether the actor has an open session. Transports use
// this to route inbound messages between the engine and the resolver.
func (r *Sessions) Has(actorID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.open[actorID]
	return ok
}
