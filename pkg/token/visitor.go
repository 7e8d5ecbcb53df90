package token

import "strings"

// PrefixVisitorAccess tags access tokens issued to visiting principals.
const PrefixVisitorAccess = "AV~"

// VisitorAccessToken grants a visiting principal access to the issuing cell.
// It carries the roles granted to the visitor and the requested scope as its
// two extension fields.
type VisitorAccessToken struct {
	Claims

	// Roles granted to the visitor, in issuance order.
	Roles []Role

	// Scope carries the granted scope values.
	Scope []string
}

// NewVisitorAccessToken constructs a visitor access token. issuedAt and
// lifespan are in epoch milliseconds / milliseconds.
func NewVisitorAccessToken(
	issuedAt, lifespan int64,
	issuer, subject string,
	roles []Role,
	schema string,
	scope []string,
) VisitorAccessToken {
	return VisitorAccessToken{
		Claims: Claims{
			IssuedAt: issuedAt,
			Lifespan: lifespan,
			Subject:  subject,
			Schema:   schema,
			Issuer:   issuer,
		},
		Roles: roles,
		Scope: scope,
	}
}

func (t VisitorAccessToken) Prefix() string { return PrefixVisitorAccess }

// ExtCellURL returns the issuer verbatim: for a visitor the originating
// authority to resolve is the cell that issued the token.
func (t VisitorAccessToken) ExtCellURL() string { return t.Issuer }

func (t VisitorAccessToken) extensionFields() ([]string, error) {
	return []string{encodeRoles(t.Roles), encodeScope(t.Scope)}, nil
}

var visitorAccessSpec = variantSpec{
	prefix:     PrefixVisitorAccess,
	extensions: 2,
	decode:     decodeVisitorAccess,
}

func decodeVisitorAccess(claims Claims, ext []string) (Token, error) {
	roles, err := decodeRoles(ext[0])
	if err != nil {
		return nil, err
	}
	return VisitorAccessToken{
		Claims: claims,
		Roles:  roles,
		Scope:  decodeScope(ext[1]),
	}, nil
}

// ParseVisitorAccess parses raw as a visitor access token issued by issuer.
func (c *Codec) ParseVisitorAccess(raw, issuer string) (VisitorAccessToken, error) {
	t, err := c.parseVariant(visitorAccessSpec, raw, issuer)
	if err != nil {
		return VisitorAccessToken{}, err
	}
	return t.(VisitorAccessToken), nil
}

func encodeScope(scope []string) string {
	return strings.Join(scope, " ")
}

func decodeScope(field string) []string {
	if field == "" {
		return []string{}
	}
	return strings.Split(field, " ")
}
