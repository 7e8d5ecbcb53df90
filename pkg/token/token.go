// Package token implements the cell-local token codec: short-lived,
// self-contained credentials protected by a symmetric per-issuer key.
//
// A token is a printable string of the form
//
//	<prefix><base64(nonce || AES-GCM(fields))>
//
// where fields is a tab-delimited payload of five common claims (issuedAt
// with reversed digits, lifespan, subject, schema, issuer) followed by a
// fixed number of variant-specific extension fields. Given the issuer's key
// a token can be decoded and validated without any server-side state.
//
// The codec is purely functional: every encode and decode is an independent
// CPU-bound transform, safe for concurrent use as long as the KeyResolver is.
package token

import (
	"fmt"
	"strconv"
	"time"
)

// Positions of the common claims inside the decrypted payload.
const (
	idxIssuedAt = 0
	idxLifespan = 1
	idxSubject  = 2
	idxSchema   = 3
	idxIssuer   = 4

	commonFieldCount = 5
)

// Default lifespans in milliseconds.
const (
	AccessTokenLifespanMillis  = int64(time.Hour / time.Millisecond)
	RefreshTokenLifespanMillis = int64(24 * time.Hour / time.Millisecond)
)

// Claims holds the common fields shared by every token variant. A Claims
// value is immutable after construction: decode produces a fully-formed
// value in one step, never a partially-initialized one.
type Claims struct {
	// IssuedAt is the issuance instant in epoch milliseconds.
	IssuedAt int64

	// Lifespan is the validity window in milliseconds after IssuedAt.
	Lifespan int64

	// Subject identifies the principal. May be empty for some variants.
	Subject string

	// Schema optionally identifies the client application the token was
	// issued to.
	Schema string

	// Issuer is the URL of the cell (or unit) whose key protects the token.
	Issuer string
}

// Common returns the claims themselves so that variants embedding Claims
// satisfy the Token interface.
func (c Claims) Common() Claims { return c }

// ID returns the stable identity of the token: subject and issuance instant.
// Two tokens independently issued for the same subject in the same
// millisecond share an ID; that is a known trade-off of stateless issuance.
func (c Claims) ID() string {
	return c.Subject + ":" + strconv.FormatInt(c.IssuedAt, 10)
}

// Target returns the secondary audience of the token. Most local variants
// have none; their authority is the issuer itself.
func (c Claims) Target() string { return "" }

// ExtCellURL returns the URL of the originating external cell, if the
// variant carries one.
func (c Claims) ExtCellURL() string { return "" }

// ExpiresAt returns the instant the token stops being valid.
func (c Claims) ExpiresAt() time.Time {
	return time.UnixMilli(c.IssuedAt + c.Lifespan)
}

// ExpiredAt reports whether the token is expired at now, tolerating the
// given clock skew. Expiry is evaluated by the verifier at its time of
// check, never inside parsing.
func (c Claims) ExpiredAt(now time.Time, skew time.Duration) bool {
	return now.After(c.ExpiresAt().Add(skew))
}

// Token is the closed set of local token variants. Each variant declares its
// prefix and serializes its extension fields; everything else is shared.
type Token interface {
	// Prefix returns the variant tag the encoded string starts with.
	Prefix() string

	// Common returns the five common claims.
	Common() Claims

	// ID returns the stable identity of the token.
	ID() string

	// Target returns the secondary audience, or "" if the variant has none.
	Target() string

	// ExtCellURL returns the originating authority URL, or "".
	ExtCellURL() string

	// extensionFields returns the variant-specific trailing fields in
	// declared order. Unexported to keep the variant set closed.
	extensionFields() ([]string, error)
}

// Codec encodes and decodes local tokens using keys from a KeyResolver.
type Codec struct {
	keys KeyResolver
}

// NewCodec returns a codec backed by the given key resolver.
func NewCodec(keys KeyResolver) *Codec {
	return &Codec{keys: keys}
}

// Encode builds the encoded string form of t.
func (c *Codec) Encode(t Token) (string, error) {
	cl := t.Common()
	if cl.Issuer == "" {
		return "", fmt.Errorf("token issuer must not be empty")
	}
	if cl.IssuedAt < 0 {
		return "", fmt.Errorf("token issuedAt must not be negative")
	}
	if cl.Lifespan <= 0 {
		return "", fmt.Errorf("token lifespan must be positive")
	}

	ext, err := t.extensionFields()
	if err != nil {
		return "", fmt.Errorf("building extension fields: %w", err)
	}

	fields := make([]string, 0, commonFieldCount+len(ext))
	fields = append(fields,
		formatIssuedAt(cl.IssuedAt),
		strconv.FormatInt(cl.Lifespan, 10),
		cl.Subject,
		cl.Schema,
		cl.Issuer,
	)
	fields = append(fields, ext...)

	payload, err := serializeFields(fields)
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}

	key, err := c.keys.ResolveKey(cl.Issuer)
	if err != nil {
		return "", fmt.Errorf("resolving key for issuer %q: %w", cl.Issuer, err)
	}

	body, err := encryptPayload(key, []byte(payload))
	if err != nil {
		return "", fmt.Errorf("encrypting payload: %w", err)
	}

	return t.Prefix() + body, nil
}

// parseBody decrypts and splits the payload behind a variant prefix. It does
// not evaluate expiry and does not verify the issuer beyond what a clean
// decryption under the issuer's key implies.
func (c *Codec) parseBody(body, issuer string, extCount int) (Claims, []string, error) {
	key, err := c.keys.ResolveKey(issuer)
	if err != nil {
		return Claims{}, nil, fmt.Errorf("resolving key for issuer %q: %w", issuer, err)
	}

	plain, err := decryptPayload(key, body)
	if err != nil {
		return Claims{}, nil, err
	}

	fields, err := splitFields(string(plain), commonFieldCount+extCount)
	if err != nil {
		return Claims{}, nil, err
	}

	issuedAt, err := parseIssuedAt(fields[idxIssuedAt])
	if err != nil {
		return Claims{}, nil, err
	}
	lifespan, err := parseLifespan(fields[idxLifespan])
	if err != nil {
		return Claims{}, nil, err
	}

	claims := Claims{
		IssuedAt: issuedAt,
		Lifespan: lifespan,
		Subject:  fields[idxSubject],
		Schema:   fields[idxSchema],
		Issuer:   fields[idxIssuer],
	}
	return claims, fields[commonFieldCount:], nil
}
