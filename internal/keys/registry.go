package keys

import (
	"errors"
	"fmt"

	"github.com/shimono/personium-lib-common/internal/config"
	"github.com/shimono/personium-lib-common/pkg/token"
)

// ErrUnknownIssuer is returned by a resolver that has no key for the issuer,
// letting a chain fall through to the next resolver.
var ErrUnknownIssuer = errors.New("no key configured for issuer")

// BuildResolver constructs a key resolver from configuration. Multiple
// entries are chained in declaration order; the first resolver that knows
// the issuer wins.
func BuildResolver(cfgs []config.KeyConfig) (token.KeyResolver, error) {
	chain := make(chainResolver, 0, len(cfgs))
	for _, cfg := range cfgs {
		switch cfg.Type {
		case "master":
			r, err := NewMasterFromConfig(cfg)
			if err != nil {
				return nil, fmt.Errorf("building master resolver %q: %w", cfg.Name, err)
			}
			chain = append(chain, r)
		case "static":
			r, err := NewStaticFromConfig(cfg)
			if err != nil {
				return nil, fmt.Errorf("building static resolver %q: %w", cfg.Name, err)
			}
			chain = append(chain, r)
		default:
			return nil, fmt.Errorf("unknown key resolver type %q for resolver %q", cfg.Type, cfg.Name)
		}
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return chain, nil
}

type chainResolver []token.KeyResolver

func (c chainResolver) ResolveKey(issuer string) ([]byte, error) {
	for _, r := range c {
		key, err := r.ResolveKey(issuer)
		if err != nil {
			if errors.Is(err, ErrUnknownIssuer) {
				continue
			}
			return nil, err
		}
		return key, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownIssuer, issuer)
}
