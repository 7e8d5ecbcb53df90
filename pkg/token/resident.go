package token

// PrefixResidentAccess tags access tokens issued to a cell's own accounts.
const PrefixResidentAccess = "AR~"

// ResidentAccessToken grants a cell-local account access to its own cell.
// Its single extension field carries the granted scope.
type ResidentAccessToken struct {
	Claims

	// Scope carries the granted scope values.
	Scope []string
}

// NewResidentAccessToken constructs a resident access token.
func NewResidentAccessToken(issuedAt, lifespan int64, issuer, subject, schema string, scope []string) ResidentAccessToken {
	return ResidentAccessToken{
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

func (t ResidentAccessToken) Prefix() string { return PrefixResidentAccess }

func (t ResidentAccessToken) extensionFields() ([]string, error) {
	return []string{encodeScope(t.Scope)}, nil
}

var residentAccessSpec = variantSpec{
	prefix:     PrefixResidentAccess,
	extensions: 1,
	decode: func(claims Claims, ext []string) (Token, error) {
		return ResidentAccessToken{Claims: claims, Scope: decodeScope(ext[0])}, nil
	},
}

// ParseResidentAccess parses raw as a resident access token issued by issuer.
func (c *Codec) ParseResidentAccess(raw, issuer string) (ResidentAccessToken, error) {
	t, err := c.parseVariant(residentAccessSpec, raw, issuer)
	if err != nil {
		return ResidentAccessToken{}, err
	}
	return t.(ResidentAccessToken), nil
}
