package dialogue

import "testing"

func TestSessionsBeginReplaces(t *testing.T) {
	r := NewSessions()

	first := r.Begin("actor-1")
	first.PendingTerm = "stale"
	second := r.Begin("actor-1")

	if first.ID == second.ID {
		t.Error("expected a fresh session ID")
	}
	got, ok := r.Get("actor-1")
	if !ok {
		t.Fatal("expected an open session")
	}
	if got.PendingTerm != "" || got.Stage != StageAwaitingTerm {
		t.Errorf("stale state leaked into new session: %+v", got)
	}
}

func TestSessionsEnd(t *testing.T) {
	r := NewSessions()

	r.Begin("actor-1")
	if !r.Has("actor-1") {
		t.Fatal("expected open session")
	}
	r.End("actor-1")
	if r.Has("actor-1") {
		t.Error("expected session destroyed")
	}
	// Ending twice is harmless.
	r.End("actor-1")
}

func TestSessionsPerActor(t *testing.T) {
	r := NewSessions()

	r.Begin("actor-1")
	if r.Has("actor-2") {
		t.Error("sessions must be scoped per actor")
	}
}
