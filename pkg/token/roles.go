package token

import (
	"net/url"
	"strings"
)

// roleSeparator joins role entries inside the role-list extension field.
// It is distinct from the outer field separator.
const roleSeparator = "\n"

// roleResourcePath is the conventional path segment of a cell-scoped role
// resource URL: <cell>__role/<name>.
const roleResourcePath = "__role/"

// Role references a role document defined by a cell.
type Role struct {
	// Name is the human-readable role name, derived from the last path
	// segment of the resource URL on decode.
	Name string

	// URL is the resolvable location of the role's defining resource.
	URL string
}

// NewRole builds a role reference for a role named name defined by the cell
// at cellURL.
func NewRole(cellURL, name string) Role {
	base := cellURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Role{
		Name: name,
		URL:  base + roleResourcePath + name,
	}
}

// encodeRoles joins the role URLs into a single extension field, preserving
// order.
func encodeRoles(roles []Role) string {
	urls := make([]string, len(roles))
	for i, r := range roles {
		urls[i] = r.URL
	}
	return strings.Join(urls, roleSeparator)
}

// decodeRoles parses a role-list extension field. A single malformed entry
// fails the whole decode; no partial results are returned. An empty field
// decodes to an empty, non-nil slice.
func decodeRoles(field string) ([]Role, error) {
	if field == "" {
		return []Role{}, nil
	}

	entries := strings.Split(field, roleSeparator)
	roles := make([]Role, 0, len(entries))
	for _, entry := range entries {
		u, err := url.Parse(entry)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, newParseError(ErrMalformedReference, entry, err)
		}
		roles = append(roles, Role{
			Name: roleNameFromPath(u.Path),
			URL:  entry,
		})
	}
	return roles, nil
}

func roleNameFromPath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
