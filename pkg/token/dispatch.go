package token

import (
	"fmt"
	"strings"
)

// variantSpec describes one registered token variant: its prefix, the number
// of extension fields it declares, and the decoder that turns common claims
// plus extension fields into the variant value.
type variantSpec struct {
	prefix     string
	extensions int
	decode     func(claims Claims, ext []string) (Token, error)
}

// registry lists the variants in dispatch priority order.
var registry = []variantSpec{
	visitorAccessSpec,
	passwordChangeSpec,
	residentAccessSpec,
	unitLocalSpec,
	visitorRefreshSpec,
	residentRefreshSpec,
}

func init() {
	seen := make(map[string]struct{}, len(registry))
	for _, spec := range registry {
		if _, dup := seen[spec.prefix]; dup {
			panic(fmt.Sprintf("token: duplicate variant prefix %q", spec.prefix))
		}
		seen[spec.prefix] = struct{}{}
	}
}

// DispatchPrefix returns the registered prefix that raw starts with, without
// resolving any key or attempting decryption. It returns
// ErrUnrecognizedVariant if no registered variant matches.
func DispatchPrefix(raw string) (string, error) {
	for _, spec := range registry {
		if strings.HasPrefix(raw, spec.prefix) {
			return spec.prefix, nil
		}
	}
	return "", newParseError(ErrUnrecognizedVariant, "", nil)
}

// Parse routes raw to the variant matching its prefix and parses it as
// issued by issuer. A token whose prefix matches but whose payload fails to
// parse propagates that failure; it never falls through to other variants.
func (c *Codec) Parse(raw, issuer string) (Token, error) {
	for _, spec := range registry {
		if strings.HasPrefix(raw, spec.prefix) {
			return c.parseVariant(spec, raw, issuer)
		}
	}
	return nil, newParseError(ErrUnrecognizedVariant, "", nil)
}

// parseVariant checks the prefix and issuer before any key lookup, then
// decrypts, splits and decodes the payload for the given variant.
func (c *Codec) parseVariant(spec variantSpec, raw, issuer string) (Token, error) {
	if !strings.HasPrefix(raw, spec.prefix) || issuer == "" {
		return nil, newParseError(ErrMalformedPrefix, "", nil)
	}

	claims, ext, err := c.parseBody(raw[len(spec.prefix):], issuer, spec.extensions)
	if err != nil {
		return nil, err
	}
	return spec.decode(claims, ext)
}
