package pocketbase

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Privilege is the tri-state admin classification of a credential.
//
// A privilege is only Known* when the credential went through a login and
// carries a cached identity. A bare token (supplied directly, no login)
// stays Unverified: client-side gates must let it fall through so the
// backend enforces the real check. This mirrors the backend's own
// authorization and is not a security boundary.
type Privilege int

const (
	// PrivilegeUnverified means the credential's admin status is unknown.
	PrivilegeUnverified Privilege = iota
	// PrivilegeKnownAdmin means a login established superuser status.
	PrivilegeKnownAdmin
	// PrivilegeKnownNonAdmin means a login established an ordinary user.
	PrivilegeKnownNonAdmin
)

// String returns the privilege name for logs.
func (p Privilege) String() string {
	switch p {
	case PrivilegeKnownAdmin:
		return "admin"
	case PrivilegeKnownNonAdmin:
		return "non-admin"
	default:
		return "unverified"
	}
}

// Identity is the cached identity attached to a credential after login.
type Identity struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	IsAdmin    bool           `json:"isAdmin"`
	Verified   bool           `json:"verified"`
	Collection string         `json:"collection,omitempty"`
	Extra      map[string]any `json:"-"`
}

// Credential is a bearer token plus an optional cached identity.
type Credential struct {
	Token    string
	Identity *Identity
}

// Valid reports whether the credential carries a usable token: non-empty
// and, for JWT-shaped tokens, not past its exp claim. Opaque tokens are
// assumed valid; the backend is the final arbiter either way.
func (c Credential) Valid() bool {
	return c.Token != "" && !tokenExpired(c.Token)
}

// tokenExpired inspects the exp claim of a JWT without verifying the
// signature. Anything that does not parse as a JWT is treated as
// unexpired.
func tokenExpired(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return false
	}
	return time.Now().Unix() >= claims.Exp
}

// Privilege classifies the credential. Only a cached identity can
// produce a Known* result.
func (c Credential) Privilege() Privilege {
	if c.Identity == nil {
		return PrivilegeUnverified
	}
	if c.Identity.IsAdmin || c.Identity.Collection == AdminCollection {
		return PrivilegeKnownAdmin
	}
	return PrivilegeKnownNonAdmin
}

// IdentityFromRecord builds an Identity from an auth record. isAdmin is
// forced by the login path: superuser logins are always admin and always
// verified, user logins never are admin.
func IdentityFromRecord(rec Record, collection string, isAdmin bool) *Identity {
	ident := &Identity{
		ID:         rec.ID(),
		IsAdmin:    isAdmin,
		Collection: collection,
		Extra:      map[string]any{},
	}
	if email, ok := rec["email"].(string); ok {
		ident.Email = email
	}
	if isAdmin {
		ident.Verified = true
	} else if verified, ok := rec["verified"].(bool); ok {
		ident.Verified = verified
	}
	for k, v := range rec {
		switch k {
		case "email", "verified":
		default:
			if !IsSystemField(k) {
				ident.Extra[k] = v
			}
		}
	}
	return ident
}
