// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the admin credential of the console.

A single [Manager] per process holds the bearer token, the token holder's
profile and the tri-state admin capability. It persists the first two in a
[KV] backend so a restarted process can resume the session, and it is the
only code allowed to mutate them.

# Lifecycle

	Uninitialized → Restoring → Unauthenticated
	                          → AuthenticatedUnknownAdmin → AuthenticatedAdmin
	                                                      → AuthenticatedNonAdmin

Login, logout, a 401 from the remote API and a failed restore move the
session between these phases. Changing the token always resets the admin
status to unknown until the probe for the new token completes.
*/
package session

import (
	"errors"
	"fmt"

	"github.com/taibuivan/facilityadmin/internal/users"
)

// ErrSuperseded is returned when a login finished after the session had
// already been replaced by a newer login, logout or 401.
var ErrSuperseded = errors.New("session: superseded by a newer session change")

// # Admin Status

// AdminStatus is the outcome of the admin probe for the current token.
type AdminStatus int

const (
	// AdminUnknown means no probe has completed for the current token.
	AdminUnknown AdminStatus = iota
	AdminGranted
	AdminDenied
)

var adminStatusNames = map[AdminStatus]string{
	AdminUnknown: "unknown",
	AdminGranted: "granted",
	AdminDenied:  "denied",
}

// String returns the wire name of the status.
func (s AdminStatus) String() string {
	if name, ok := adminStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AdminStatus(%d)", int(s))
}

// MarshalText implements [encoding.TextMarshaler].
func (s AdminStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// # Phase

// Phase is the externally observable state of the session.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseRestoring
	PhaseUnauthenticated
	PhaseAuthenticatedUnknownAdmin
	PhaseAuthenticatedAdmin
	PhaseAuthenticatedNonAdmin
)

var phaseNames = map[Phase]string{
	PhaseUninitialized:             "uninitialized",
	PhaseRestoring:                 "restoring",
	PhaseUnauthenticated:           "unauthenticated",
	PhaseAuthenticatedUnknownAdmin: "authenticated_unknown_admin",
	PhaseAuthenticatedAdmin:        "authenticated_admin",
	PhaseAuthenticatedNonAdmin:     "authenticated_non_admin",
}

// String returns the wire name of the phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText implements [encoding.TextMarshaler].
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// # Snapshot

// Snapshot is a consistent copy of the session at one instant.
type Snapshot struct {
	Phase           Phase       `json:"phase"`
	Token           string      `json:"-"`
	User            *users.User `json:"user,omitempty"`
	AdminStatus     AdminStatus `json:"adminStatus"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	IsAdmin         bool        `json:"isAdmin"`
}

// PrincipalID identifies the signed-in admin in request logs.
func (s Snapshot) PrincipalID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID.String()
}
