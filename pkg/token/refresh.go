package token

// Prefixes for the refresh token variants.
const (
	PrefixVisitorRefresh  = "RV~"
	PrefixResidentRefresh = "RR~"
)

// VisitorRefreshToken lets a visitor obtain fresh access tokens without
// re-authenticating against its home cell. It carries the role list so a
// refreshed access token keeps the original grants.
type VisitorRefreshToken struct {
	Claims

	// Roles granted at original issuance, carried over on refresh.
	Roles []Role
}

// NewVisitorRefreshToken constructs a visitor refresh token.
func NewVisitorRefreshToken(issuedAt, lifespan int64, issuer, subject string, roles []Role, schema string) VisitorRefreshToken {
	return VisitorRefreshToken{
		Claims: Claims{
			IssuedAt: issuedAt,
			Lifespan: lifespan,
			Subject:  subject,
			Schema:   schema,
			Issuer:   issuer,
		},
		Roles: roles,
	}
}

func (t VisitorRefreshToken) Prefix() string { return PrefixVisitorRefresh }

func (t VisitorRefreshToken) ExtCellURL() string { return t.Issuer }

func (t VisitorRefreshToken) extensionFields() ([]string, error) {
	return []string{encodeRoles(t.Roles)}, nil
}

var visitorRefreshSpec = variantSpec{
	prefix:     PrefixVisitorRefresh,
	extensions: 1,
	decode: func(claims Claims, ext []string) (Token, error) {
		roles, err := decodeRoles(ext[0])
		if err != nil {
			return nil, err
		}
		return VisitorRefreshToken{Claims: claims, Roles: roles}, nil
	},
}

// ParseVisitorRefresh parses raw as a visitor refresh token issued by issuer.
func (c *Codec) ParseVisitorRefresh(raw, issuer string) (VisitorRefreshToken, error) {
	t, err := c.parseVariant(visitorRefreshSpec, raw, issuer)
	if err != nil {
		return VisitorRefreshToken{}, err
	}
	return t.(VisitorRefreshToken), nil
}

// ResidentRefreshToken lets a cell-local account obtain fresh access tokens.
// Its single extension field carries the granted scope.
type ResidentRefreshToken struct {
	Claims

	// Scope granted at original issuance, carried over on refresh.
	Scope []string
}

// NewResidentRefreshToken constructs a resident refresh token.
func NewResidentRefreshToken(issuedAt, lifespan int64, issuer, subject, schema string, scope []string) ResidentRefreshToken {
	return ResidentRefreshToken{
		Claims: Claims{
			IssuedAt: issuedAt,
			Lifespan: lifespan,
			Subject:  subject,
			Schema:   schema,
			Issuer:   issuer,
		},
		Scope: scope,
	}
}

func (t ResidentRefreshToken) Prefix() string { return PrefixResidentRefresh }

func (t ResidentRefreshToken) extensionFields() ([]string, error) {
	return []string{encodeScope(t.Scope)}, nil
}

var residentRefreshSpec = variantSpec{
	prefix:     PrefixResidentRefresh,
	extensions: 1,
	decode: func(claims Claims, ext []string) (Token, error) {
		return ResidentRefreshToken{Claims: claims, Scope: decodeScope(ext[0])}, nil
	},
}

// ParseResidentRefresh parses raw as a resident refresh token issued by
// issuer.
func (c *Codec) ParseResidentRefresh(raw, issuer string) (ResidentRefreshToken, error) {
	t, err := c.parseVariant(residentRefreshSpec, raw, issuer)
	if err != nil {
		return ResidentRefreshToken{}, err
	}
	return t.(ResidentRefreshToken), nil
}
