// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package users implements the read-only user directory of the console.

# Architecture

Users live in the remote booking API. This package defines the profile
entity as the remote API serializes it and a [Service] that lists users by
page, by cohort, or looks a single user up by WhatsApp number.
*/
package users

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// # Domain Entities

// ID is an identifier the remote API may serialize as a string or a number.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*id = ID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("users: id must be a string or number: %w", err)
	}
	*id = ID(number.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// Cohort is the intake year group a user belongs to.
type Cohort struct {
	ID   ID     `json:"id"`
	Name string `json:"namaAngkatan"`
}

// User is the profile of a platform member.
//
// Field names follow the remote API so the console can forward profiles
// verbatim.
type User struct {
	ID          ID      `json:"id"`
	FullName    string  `json:"namaLengkap"`
	Nickname    string  `json:"namaPanggilan,omitempty"`
	PhoneNumber string  `json:"nomorWa"`
	Gender      string  `json:"gender,omitempty"`
	CohortID    ID      `json:"idAngkatan,omitempty"`
	Cohort      *Cohort `json:"angkatan,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// DisplayName prefers the nickname over the full name.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.FullName
}

// # Field Identifiers

const (
	FieldPage      = "page"
	FieldLimit     = "limit"
	FieldSortBy    = "sortBy"
	FieldSortOrder = "sortOrder"
	FieldCohort    = "cohort"
	FieldPhone     = "phone"
)

// SortableFields lists the remote fields the directory can be ordered by.
var SortableFields = []string{"namaLengkap", "namaPanggilan", "nomorWa", "createdAt", "updatedAt"}
