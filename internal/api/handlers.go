package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shimono/personium-lib-common/internal/api/presenter"
	"github.com/shimono/personium-lib-common/internal/buildinfo"
	"github.com/shimono/personium-lib-common/internal/service"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

type IssuePayload struct {
	// Kind selects the token variant to issue.
	Kind string `json:"kind"`

	// Issuer is the cell (or unit) URL the token is issued by.
	Issuer string `json:"issuer"`

	// Subject identifies the principal the token is issued for.
	Subject string `json:"subject"`

	// Schema optionally identifies the client application.
	Schema string `json:"schema,omitempty"`

	// Roles are the role names to grant to a visitor.
	Roles []string `json:"roles,omitempty"`

	// Scope carries the requested scope values.
	Scope []string `json:"scope,omitempty"`

	// LifespanMillis optionally overrides the configured default lifespan.
	LifespanMillis int64 `json:"lifespan_millis,omitempty"`
}

type VerifyPayload struct {
	Token  string `json:"token"`
	Issuer string `json:"issuer"`
}

type RefreshPayload struct {
	Token  string `json:"token"`
	Issuer string `json:"issuer"`
}

type ExchangePayload struct {
	Token    string `json:"token"`
	Issuer   string `json:"issuer"`
	Audience string `json:"audience,omitempty"`
}

func DecodePayload(r *http.Request, dest any, allowEmpty bool) error {
	switch r.Header.Get("Content-Type") {
	case "application/json", "":
		// strict encoding for JSON
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			if !errors.Is(err, io.EOF) || !allowEmpty {
				return err
			}
		}
		// ensure there's no extra data
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}

// handleIssue processes token issuance requests.
func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload IssuePayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode issue request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	resp, err := s.tokenService.IssueToken(ctx, service.IssueRequest{
		Kind:     payload.Kind,
		Issuer:   payload.Issuer,
		Subject:  payload.Subject,
		Schema:   payload.Schema,
		Roles:    payload.Roles,
		Scope:    payload.Scope,
		Lifespan: time.Duration(payload.LifespanMillis) * time.Millisecond,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("token issuance rejected")
		presenter.Err(w, r, err, "token issuance failed")
		return
	}

	logger.Info().
		Str("kind", resp.Kind).
		Str("fingerprint", resp.Fingerprint).
		Msg("token issued successfully")

	presenter.JSON(w, r, resp, http.StatusCreated)
}

// handleVerify processes token introspection requests.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload VerifyPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode verify request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	resp, err := s.tokenService.VerifyToken(ctx, service.VerifyRequest{
		Token:  payload.Token,
		Issuer: payload.Issuer,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("token verification rejected")
		presenter.Err(w, r, err, "token verification failed")
		return
	}

	presenter.JSON(w, r, resp, http.StatusOK)
}

// handleRefresh exchanges a refresh token for a fresh access token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload RefreshPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode refresh request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	resp, err := s.tokenService.RefreshToken(ctx, service.RefreshRequest{
		Token:  payload.Token,
		Issuer: payload.Issuer,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("token refresh rejected")
		presenter.Err(w, r, err, "token refresh failed")
		return
	}

	logger.Info().
		Str("kind", resp.Kind).
		Str("fingerprint", resp.Fingerprint).
		Msg("token refreshed successfully")

	presenter.JSON(w, r, resp, http.StatusCreated)
}

// handleExchange converts a local access token into a signed JWT.
func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload ExchangePayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode exchange request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	resp, err := s.tokenService.ExchangeJWT(ctx, service.ExchangeRequest{
		Token:    payload.Token,
		Issuer:   payload.Issuer,
		Audience: payload.Audience,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("token exchange rejected")
		presenter.Err(w, r, err, "token exchange failed")
		return
	}

	presenter.JSON(w, r, resp, http.StatusOK)
}

// handleAdminAudit processes requests to retrieve audit log entries.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 0 {
			logger.Warn().Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	entries, err := s.auditLog.GetRecent(limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}
