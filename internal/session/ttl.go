// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minTTL keeps an already expired token from being stored without expiry.
const minTTL = time.Second

// tokenTTL derives how long the persisted session should live.
//
// The token's own "exp" claim wins. The signature is not checked: only the
// remote API can verify it, and this value merely bounds local storage.
// Without a JWT, a numeric expiresIn (seconds) is used. Otherwise 0, i.e.
// no expiry.
func tokenTTL(token string, expiresIn any) time.Duration {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return clampTTL(time.Until(claims.ExpiresAt.Time))
	}

	if seconds, ok := numericSeconds(expiresIn); ok && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return 0
}

// expiryOf turns a TTL into an absolute expiry. A zero TTL gives the zero time.
func expiryOf(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// remainingTTL is what is left of expiresAt, or 0 for no expiry.
func remainingTTL(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	return clampTTL(time.Until(expiresAt))
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}

func numericSeconds(value any) (int64, bool) {
	switch typed := value.(type) {
	case json.Number:
		seconds, err := typed.Int64()
		return seconds, err == nil
	case float64:
		return int64(typed), true
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case string:
		seconds, err := strconv.ParseInt(typed, 10, 64)
		return seconds, err == nil
	default:
		return 0, false
	}
}
