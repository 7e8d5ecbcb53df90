package service

import (
	"time"

	"github.com/shimono/personium-lib-common/pkg/token"
)

// Token kinds accepted by IssueToken.
const (
	KindVisitorAccess   = "visitor-access"
	KindPasswordChange  = "password-change"
	KindResidentAccess  = "resident-access"
	KindUnitLocal       = "unit-local"
	KindVisitorRefresh  = "visitor-refresh"
	KindResidentRefresh = "resident-refresh"
)

type IssueRequest struct {
	// Kind selects the token variant (see the Kind* constants).
	Kind string

	// Issuer is the cell (or unit) URL the token is issued by.
	Issuer string

	// Subject identifies the principal the token is issued for.
	Subject string

	// Schema optionally identifies the client application.
	Schema string

	// Roles are role names granted to a visitor; they are bound to the
	// issuer's role resources.
	Roles []string

	// Scope carries the granted scope values.
	Scope []string

	// Lifespan optionally overrides the configured default.
	Lifespan time.Duration
}

type IssueResponse struct {
	// Token is the encoded token string.
	Token string `json:"token"`

	// Kind is the variant prefix of the issued token.
	Kind string `json:"kind"`

	// ExpiresAt indicates when the token becomes invalid.
	ExpiresAt time.Time `json:"expires_at"`

	// Fingerprint is the non-reversible identifier used in audit entries.
	Fingerprint string `json:"fingerprint"`
}

type VerifyRequest struct {
	// Token is the raw encoded token string.
	Token string

	// Issuer is the expected issuer whose key the token must decrypt under.
	Issuer string
}

// VerifyResponse is the introspection result for a structurally valid token.
type VerifyResponse struct {
	Kind       string       `json:"kind"`
	ID         string       `json:"id"`
	Subject    string       `json:"subject,omitempty"`
	Schema     string       `json:"schema,omitempty"`
	Issuer     string       `json:"issuer"`
	IssuedAt   time.Time    `json:"issued_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	Expired    bool         `json:"expired"`
	Roles      []token.Role `json:"roles,omitempty"`
	Scope      []string     `json:"scope,omitempty"`
	Target     string       `json:"target,omitempty"`
	ExtCellURL string       `json:"ext_cell_url,omitempty"`
}

type RefreshRequest struct {
	// Token is the raw refresh token string.
	Token string

	// Issuer is the expected issuer of the refresh token.
	Issuer string
}

type ExchangeRequest struct {
	// Token is a raw local access token string.
	Token string

	// Issuer is the expected issuer of the token.
	Issuer string

	// Audience is the aud claim of the resulting JWT.
	Audience string
}

type ExchangeResponse struct {
	// JWT is the signed trans-cell representation of the local token.
	JWT string `json:"jwt"`

	// ExpiresAt mirrors the local token's expiry.
	ExpiresAt time.Time `json:"expires_at"`
}
