package client

import (
	"context"

	"github.com/shimono/personium-lib-common/internal/api"
	"github.com/shimono/personium-lib-common/internal/audit"
)

type ListAuditsOpts struct {
	Limit uint
}

// ListAudits retrieves the latest audit entries from the server, limited to the specified number.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]audit.Entry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Limit > 0 {
		ub = ub.addQueryParam("limit", opts.Limit)
	}
	var resp []audit.Entry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}
