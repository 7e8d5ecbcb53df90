package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shimono/personium-lib-common/internal/audit"
	"github.com/shimono/personium-lib-common/internal/keys"
	"github.com/shimono/personium-lib-common/pkg/token"
)

// TokenService issues, verifies, refreshes and exchanges cell-local tokens.
type TokenService struct {
	codec   *token.Codec
	keys    token.KeyResolver
	auditor audit.Auditor

	unitURL         string
	accessLifespan  time.Duration
	refreshLifespan time.Duration
	clockSkew       time.Duration

	// now is swappable for tests.
	now func() time.Time
}

func NewTokenService(
	codec *token.Codec,
	resolver token.KeyResolver,
	auditor audit.Auditor,
	unitURL string,
	accessLifespan, refreshLifespan, clockSkew time.Duration,
) *TokenService {
	return &TokenService{
		codec:           codec,
		keys:            resolver,
		auditor:         auditor,
		unitURL:         unitURL,
		accessLifespan:  accessLifespan,
		refreshLifespan: refreshLifespan,
		clockSkew:       clockSkew,
		now:             time.Now,
	}
}

func (s *TokenService) IssueToken(ctx context.Context, req IssueRequest) (*IssueResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := audit.Entry{
		ID:      reqID,
		Time:    s.now(),
		Action:  "token.issue",
		Issuer:  req.Issuer,
		Subject: req.Subject,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token issuance")
		}
	}()

	if req.Issuer == "" && req.Kind == KindUnitLocal {
		// unit-local tokens are issued by the unit itself
		req.Issuer = s.unitURL
		auditEntry.Issuer = req.Issuer
	}
	if req.Issuer == "" {
		auditEntry.Error = "issuer missing"
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("issuer must not be empty"))
	}

	issuedAt := s.now().UnixMilli()
	lifespan := req.Lifespan
	if lifespan <= 0 {
		lifespan = s.accessLifespan
	}

	var t token.Token
	switch req.Kind {
	case KindVisitorAccess:
		roles := make([]token.Role, 0, len(req.Roles))
		for _, name := range req.Roles {
			roles = append(roles, token.NewRole(req.Issuer, name))
		}
		t = token.NewVisitorAccessToken(issuedAt, lifespan.Milliseconds(),
			req.Issuer, req.Subject, roles, req.Schema, req.Scope)
	case KindPasswordChange:
		t = token.NewDefaultPasswordChangeAccessToken(issuedAt, req.Issuer, req.Subject, req.Schema)
	case KindResidentAccess:
		t = token.NewResidentAccessToken(issuedAt, lifespan.Milliseconds(),
			req.Issuer, req.Subject, req.Schema, req.Scope)
	case KindUnitLocal:
		t = token.NewUnitLocalToken(issuedAt, lifespan.Milliseconds(),
			req.Issuer, req.Subject, req.Schema)
	case KindVisitorRefresh:
		roles := make([]token.Role, 0, len(req.Roles))
		for _, name := range req.Roles {
			roles = append(roles, token.NewRole(req.Issuer, name))
		}
		if req.Lifespan <= 0 {
			lifespan = s.refreshLifespan
		}
		t = token.NewVisitorRefreshToken(issuedAt, lifespan.Milliseconds(),
			req.Issuer, req.Subject, roles, req.Schema)
	case KindResidentRefresh:
		if req.Lifespan <= 0 {
			lifespan = s.refreshLifespan
		}
		t = token.NewResidentRefreshToken(issuedAt, lifespan.Milliseconds(),
			req.Issuer, req.Subject, req.Schema, req.Scope)
	default:
		auditEntry.Error = "unknown token kind"
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("unknown token kind %q", req.Kind))
	}
	auditEntry.Kind = t.Prefix()

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("sub", req.Subject).Str("kind", t.Prefix())
	})

	encoded, err := s.codec.Encode(t)
	if err != nil {
		auditEntry.Error = "encoding failed"
		if errors.Is(err, keys.ErrUnknownIssuer) {
			return nil, httpError(http.StatusBadRequest,
				fmt.Errorf("no key configured for issuer %q", req.Issuer))
		}
		return nil, httpError(http.StatusInternalServerError, fmt.Errorf("encoding failed: %w", err))
	}

	fingerprint := audit.Fingerprint(encoded)
	auditEntry.Success = true
	auditEntry.Fingerprint = fingerprint

	return &IssueResponse{
		Token:       encoded,
		Kind:        t.Prefix(),
		ExpiresAt:   t.Common().ExpiresAt(),
		Fingerprint: fingerprint,
	}, nil
}

func (s *TokenService) VerifyToken(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := audit.Entry{
		ID:          reqID,
		Time:        s.now(),
		Action:      "token.verify",
		Issuer:      req.Issuer,
		Fingerprint: audit.Fingerprint(req.Token),
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token verification")
		}
	}()

	t, err := s.parseChecked(req.Token, req.Issuer, &auditEntry)
	if err != nil {
		return nil, err
	}

	auditEntry.Kind = t.Prefix()
	auditEntry.Subject = t.Common().Subject
	auditEntry.Success = true

	resp := introspect(t)
	resp.Expired = t.Common().ExpiredAt(s.now(), s.clockSkew)
	return resp, nil
}

func (s *TokenService) RefreshToken(ctx context.Context, req RefreshRequest) (*IssueResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := audit.Entry{
		ID:          reqID,
		Time:        s.now(),
		Action:      "token.refresh",
		Issuer:      req.Issuer,
		Fingerprint: audit.Fingerprint(req.Token),
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token refresh")
		}
	}()

	t, err := s.parseChecked(req.Token, req.Issuer, &auditEntry)
	if err != nil {
		return nil, err
	}
	auditEntry.Kind = t.Prefix()
	auditEntry.Subject = t.Common().Subject

	if t.Common().ExpiredAt(s.now(), s.clockSkew) {
		auditEntry.Error = "refresh token expired"
		return nil, httpError(http.StatusUnauthorized, fmt.Errorf("refresh token expired"))
	}

	issuedAt := s.now().UnixMilli()
	cl := t.Common()

	var next token.Token
	switch rt := t.(type) {
	case token.VisitorRefreshToken:
		next = token.NewVisitorAccessToken(issuedAt, s.accessLifespan.Milliseconds(),
			cl.Issuer, cl.Subject, rt.Roles, cl.Schema, nil)
	case token.ResidentRefreshToken:
		next = token.NewResidentAccessToken(issuedAt, s.accessLifespan.Milliseconds(),
			cl.Issuer, cl.Subject, cl.Schema, rt.Scope)
	default:
		auditEntry.Error = "not a refresh token"
		return nil, httpError(http.StatusBadRequest,
			fmt.Errorf("token of kind %q cannot be refreshed", t.Prefix()))
	}

	encoded, err := s.codec.Encode(next)
	if err != nil {
		auditEntry.Error = "encoding failed"
		return nil, httpError(http.StatusInternalServerError, fmt.Errorf("encoding failed: %w", err))
	}

	fingerprint := audit.Fingerprint(encoded)
	auditEntry.Success = true

	return &IssueResponse{
		Token:       encoded,
		Kind:        next.Prefix(),
		ExpiresAt:   next.Common().ExpiresAt(),
		Fingerprint: fingerprint,
	}, nil
}

// ExchangeJWT converts a valid local access token into a signed HS256 JWT
// addressed to a target cell. The JWT is signed with the issuer's derived key
// and mirrors the local token's identity and expiry.
func (s *TokenService) ExchangeJWT(ctx context.Context, req ExchangeRequest) (*ExchangeResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := audit.Entry{
		ID:          reqID,
		Time:        s.now(),
		Action:      "token.exchange",
		Issuer:      req.Issuer,
		Fingerprint: audit.Fingerprint(req.Token),
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token exchange")
		}
	}()

	t, err := s.parseChecked(req.Token, req.Issuer, &auditEntry)
	if err != nil {
		return nil, err
	}
	auditEntry.Kind = t.Prefix()
	auditEntry.Subject = t.Common().Subject

	switch t.(type) {
	case token.VisitorRefreshToken, token.ResidentRefreshToken:
		auditEntry.Error = "refresh tokens cannot be exchanged"
		return nil, httpError(http.StatusBadRequest,
			fmt.Errorf("refresh tokens cannot be exchanged"))
	}

	if t.Common().ExpiredAt(s.now(), s.clockSkew) {
		auditEntry.Error = "token expired"
		return nil, httpError(http.StatusUnauthorized, fmt.Errorf("token expired"))
	}

	cl := t.Common()
	claims := jwt.MapClaims{
		"iss": cl.Issuer,
		"sub": cl.Subject,
		"iat": cl.IssuedAt / 1000,
		"exp": cl.ExpiresAt().Unix(),
	}
	if req.Audience != "" {
		claims["aud"] = req.Audience
	}
	switch at := t.(type) {
	case token.VisitorAccessToken:
		urls := make([]string, 0, len(at.Roles))
		for _, r := range at.Roles {
			urls = append(urls, r.URL)
		}
		claims["roles"] = urls
		if len(at.Scope) > 0 {
			claims["scope"] = at.Scope
		}
	case token.ResidentAccessToken:
		if len(at.Scope) > 0 {
			claims["scope"] = at.Scope
		}
	}

	key, err := s.keys.ResolveKey(cl.Issuer)
	if err != nil {
		auditEntry.Error = "key resolution failed"
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("resolving signing key: %w", err))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		auditEntry.Error = "signing failed"
		return nil, httpError(http.StatusInternalServerError, fmt.Errorf("signing JWT: %w", err))
	}

	auditEntry.Success = true
	return &ExchangeResponse{
		JWT:       signed,
		ExpiresAt: cl.ExpiresAt(),
	}, nil
}

// parseChecked parses raw and translates codec failures into HTTP-mapped
// errors. Unrecognized prefixes are a client mistake; everything else is
// reported uniformly as an authorization failure.
func (s *TokenService) parseChecked(raw, issuer string, auditEntry *audit.Entry) (token.Token, error) {
	if issuer == "" {
		auditEntry.Error = "issuer missing"
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("issuer must not be empty"))
	}

	t, err := s.codec.Parse(raw, issuer)
	if err != nil {
		if errors.Is(err, token.ErrUnrecognizedVariant) {
			auditEntry.Error = "unrecognized token format"
			return nil, httpError(http.StatusBadRequest, fmt.Errorf("unrecognized token format"))
		}
		auditEntry.Error = "token rejected"
		return nil, httpError(http.StatusUnauthorized, fmt.Errorf("token rejected: %w", err))
	}
	return t, nil
}

func introspect(t token.Token) *VerifyResponse {
	cl := t.Common()
	resp := &VerifyResponse{
		Kind:       t.Prefix(),
		ID:         t.ID(),
		Subject:    cl.Subject,
		Schema:     cl.Schema,
		Issuer:     cl.Issuer,
		IssuedAt:   time.UnixMilli(cl.IssuedAt),
		ExpiresAt:  cl.ExpiresAt(),
		Target:     t.Target(),
		ExtCellURL: t.ExtCellURL(),
	}
	switch v := t.(type) {
	case token.VisitorAccessToken:
		resp.Roles = v.Roles
		resp.Scope = v.Scope
	case token.ResidentAccessToken:
		resp.Scope = v.Scope
	case token.VisitorRefreshToken:
		resp.Roles = v.Roles
	case token.ResidentRefreshToken:
		resp.Scope = v.Scope
	}
	return resp
}
