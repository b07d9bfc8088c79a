// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package viewslot keeps the most recent result of a repeatable request.
//
// Two overlapping loads of the same view may finish in any order. A [Slot]
// hands out monotonically increasing tickets when a load begins and only
// accepts the result of the newest ticket, so a slow superseded load can
// never replace a newer one.
package viewslot

import (
	"sync"
	"time"
)

// Ticket identifies one load of a view.
type Ticket uint64

// Slot stores the latest committed value of type T.
//
// The zero value is ready to use.
type Slot[T any] struct {
	mu          sync.Mutex
	issued      Ticket
	committed   Ticket
	value       T
	hasValue    bool
	committedAt time.Time
}

// Begin starts a new load and returns its ticket.
func (s *Slot[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// Commit stores value if ticket is still the newest one begun.
// It reports whether the value was kept.
func (s *Slot[T]) Commit(ticket Ticket, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.issued || ticket <= s.committed {
		return false
	}

	s.committed = ticket
	s.value = value
	s.hasValue = true
	s.committedAt = time.Now()
	return true
}

// Load returns the latest committed value.
func (s *Slot[T]) Load() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value, s.hasValue
}

// CommittedAt returns when the current value was committed.
func (s *Slot[T]) CommittedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.committedAt
}

// Reset drops the committed value and invalidates every outstanding ticket.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// ResetIf resets the slot only if it holds a value accepted by match. The
// check and the reset happen under one lock, so a value committed in
// between is never dropped by mistake.
func (s *Slot[T]) ResetIf(match func(T) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasValue || !match(s.value) {
		return false
	}
	s.resetLocked()
	return true
}

func (s *Slot[T]) resetLocked() {
	var zero T
	s.issued++
	s.committed = s.issued
	s.value = zero
	s.hasValue = false
	s.committedAt = time.Time{}
}
