package client

import (
	"context"
	"fmt"

	"github.com/shimono/personium-lib-common/internal/api"
	"github.com/shimono/personium-lib-common/internal/service"
)

// IssueToken requests a new local token from the server.
func (c *Client) IssueToken(ctx context.Context, payload api.IssuePayload) (*service.IssueResponse, string, error) {
	var result service.IssueResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.IssueTokenRoute).
		build(), payload, &result)
	if err != nil {
		return nil, correlation, fmt.Errorf("issuing token: %w", err)
	}
	return &result, correlation, nil
}

// VerifyToken asks the server to introspect a token under the given issuer.
func (c *Client) VerifyToken(ctx context.Context, rawToken, issuer string) (*service.VerifyResponse, string, error) {
	var result service.VerifyResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.VerifyTokenRoute).
		build(), api.VerifyPayload{Token: rawToken, Issuer: issuer}, &result)
	if err != nil {
		return nil, correlation, fmt.Errorf("verifying token: %w", err)
	}
	return &result, correlation, nil
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, rawToken, issuer string) (*service.IssueResponse, string, error) {
	var result service.IssueResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.RefreshTokenRoute).
		build(), api.RefreshPayload{Token: rawToken, Issuer: issuer}, &result)
	if err != nil {
		return nil, correlation, fmt.Errorf("refreshing token: %w", err)
	}
	return &result, correlation, nil
}

// ExchangeToken converts a local access token into a signed JWT for the
// given audience.
func (c *Client) ExchangeToken(ctx context.Context, rawToken, issuer, audience string) (*service.ExchangeResponse, string, error) {
	var result service.ExchangeResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.ExchangeTokenRoute).
		build(), api.ExchangePayload{Token: rawToken, Issuer: issuer, Audience: audience}, &result)
	if err != nil {
		return nil, correlation, fmt.Errorf("exchanging token: %w", err)
	}
	return &result, correlation, nil
}
