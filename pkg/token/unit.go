package token

// PrefixUnitLocal tags credentials scoped to the unit rather than to a
// single cell; the issuer is the unit root URL.
const PrefixUnitLocal = "AU~"

// UnitLocalToken authenticates a unit user against the unit itself, for
// operations spanning the cells it hosts.
type UnitLocalToken struct {
	Claims
}

// NewUnitLocalToken constructs a unit-local token. issuer must be the unit
// root URL.
func NewUnitLocalToken(issuedAt, lifespan int64, issuer, subject, schema string) UnitLocalToken {
	return UnitLocalToken{
		Claims: Claims{
			IssuedAt: issuedAt,
			Lifespan: lifespan,
			Subject:  subject,
			Schema:   schema,
			Issuer:   issuer,
		},
	}
}

func (t UnitLocalToken) Prefix() string { return PrefixUnitLocal }

func (t UnitLocalToken) extensionFields() ([]string, error) {
	return nil, nil
}

var unitLocalSpec = variantSpec{
	prefix:     PrefixUnitLocal,
	extensions: 0,
	decode: func(claims Claims, _ []string) (Token, error) {
		return UnitLocalToken{Claims: claims}, nil
	},
}

// ParseUnitLocal parses raw as a unit-local token issued by the unit at
// issuer.
func (c *Codec) ParseUnitLocal(raw, issuer string) (UnitLocalToken, error) {
	t, err := c.parseVariant(unitLocalSpec, raw, issuer)
	if err != nil {
		return UnitLocalToken{}, err
	}
	return t.(UnitLocalToken), nil
}
