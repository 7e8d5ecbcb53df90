package token

// PrefixPasswordChange tags the single-purpose token that authorizes an
// account to change its own password.
const PrefixPasswordChange = "AP~"

// PasswordChangeAccessToken is fully determined by the five common claims;
// it has no extension fields.
type PasswordChangeAccessToken struct {
	Claims
}

// NewPasswordChangeAccessToken constructs a password-change token with an
// explicit lifespan.
func NewPasswordChangeAccessToken(issuedAt, lifespan int64, issuer, subject, schema string) PasswordChangeAccessToken {
	return PasswordChangeAccessToken{
		Claims: Claims{
			IssuedAt: issuedAt,
			Lifespan: lifespan,
			Subject:  subject,
			Schema:   schema,
			Issuer:   issuer,
		},
	}
}

// NewDefaultPasswordChangeAccessToken constructs a password-change token
// with the default access-token lifespan.
func NewDefaultPasswordChangeAccessToken(issuedAt int64, issuer, subject, schema string) PasswordChangeAccessToken {
	return NewPasswordChangeAccessToken(issuedAt, AccessTokenLifespanMillis, issuer, subject, schema)
}

func (t PasswordChangeAccessToken) Prefix() string { return PrefixPasswordChange }

func (t PasswordChangeAccessToken) extensionFields() ([]string, error) {
	return nil, nil
}

var passwordChangeSpec = variantSpec{
	prefix:     PrefixPasswordChange,
	extensions: 0,
	decode: func(claims Claims, _ []string) (Token, error) {
		return PasswordChangeAccessToken{Claims: claims}, nil
	},
}

// ParsePasswordChange parses raw as a password-change token issued by issuer.
func (c *Codec) ParsePasswordChange(raw, issuer string) (PasswordChangeAccessToken, error) {
	t, err := c.parseVariant(passwordChangeSpec, raw, issuer)
	if err != nil {
		return PasswordChangeAccessToken{}, err
	}
	return t.(PasswordChangeAccessToken), nil
}
