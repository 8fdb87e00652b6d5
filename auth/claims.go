package auth

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are informational claims of a JWT bearer token. They are parsed
// without verification, and are used only to improve diagnostics.
type Claims struct {
	Subject   string
	Audience  []string
	Scope     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// Inspect parses |token| as a JWT without verifying its signature. It returns
// false if |token| is opaque (not a JWT).
func Inspect(token string) (Claims, bool) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return Claims{}, false
	}

	var out = Claims{
		Subject:  tc.Subject,
		Audience: []string(tc.Audience),
		Scope:    tc.Scope,
	}
	if tc.ExpiresAt != nil {
		out.ExpiresAt = tc.ExpiresAt.Time
	}
	return out, true
}

// Expired returns true if the Claims carry an expiry which is before |now|.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// DescribeExpiry returns a human readable description of the expiry
// relative to |now|, like "expired 3 hours ago" or "expires 5 minutes from now".
// It's empty if the Claims have no expiry.
func (c Claims) DescribeExpiry(now time.Time) string {
	if c.ExpiresAt.IsZero() {
		return ""
	} else if c.Expired(now) {
		return "expired " + humanize.RelTime(c.ExpiresAt, now, "ago", "from now")
	}
	return "expires " + humanize.RelTime(c.ExpiresAt, now, "ago", "from now")
}
