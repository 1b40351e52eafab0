package auth

import "testing"

func TestAllowList(t *testing.T) {
	a := NewAllowList([]string{" 123 ", "456", "", "  "})

	if a.Len() != 2 {
		t.Errorf("expected 2 identities, got %d", a.Len())
	}
	if !a.IsPrivileged("123") {
		t.Error("expected 123 to be privileged")
	}
	if a.IsPrivileged("789") {
		t.Error("expected 789 to be unprivileged")
	}
	if a.IsPrivileged("") {
		t.Error("blank IDs are never privileged")
	}
}
