// Package auth implements the static privileged-actor allow list.
package auth

import (
	"errors"
	"strings"
)

// ErrPermissionDenied is returned when an unprivileged actor invokes a
// privileged operation. Non-fatal; reported back to the caller.
var ErrPermissionDenied = errors.New("permission denied")

// Actor identifies one end user as seen by the transport.
type Actor struct {
	ID   string
	Name string
}

// AllowList is the immutable set of privileged actor IDs, supplied once
// at startup. Membership is the only privilege model.
type AllowList struct {
	ids map[string]struct{}
}

// NewAllowList builds the privilege set. Blank IDs are ignored.
func NewAllowList(ids []string) *AllowList {
	a := &AllowList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			a.ids[id] = struct{}{}
		}
	}
	return a
}

// IsPrivileged reports whether the actor is on the allow list.
func (a *AllowList) IsPrivileged(actorID string) bool {
	_, ok := a.ids[actorID]
	return ok
}

// Len returns the number of privileged identities.
func (a *AllowList) Len() int {
	return len(a.ids)
}
