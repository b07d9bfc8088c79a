// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the console.

Identifiers are used for request correlation and as last-resort keys for
upstream records that arrive without one. They are never sent back to the
remote API.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
//
// When the v7 generator cannot read its clock sequence it falls back to a
// random v4 value instead of failing.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
