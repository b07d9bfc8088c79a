// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account wraps the remote authentication endpoints.

It signs an admin in against POST /auth/login, reads the token holder's
profile from GET /auth/profile and forwards password changes to
PUT /auth/update-password. Session state itself is owned by the session
package; this layer is stateless.
*/
package account

import (
	"github.com/taibuivan/facilityadmin/internal/users"
)

// # Domain Entities

// Credentials is the login payload accepted by the remote API.
type Credentials struct {
	PhoneNumber string `json:"nomorWa"`
	Password    string `json:"password"`
}

// Grant is the remote answer to a successful login.
type Grant struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`

	// ExpiresIn is whatever the remote API reports, usually seconds.
	ExpiresIn any `json:"expiresIn,omitempty"`
}

// PasswordChange is the payload of a password update.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// # Field Identifiers

const (
	FieldPhoneNumber     = "phoneNumber"
	FieldPassword        = "password"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// Password length bounds. The minimum mirrors the remote password policy.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)
