package keys

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/shimono/personium-lib-common/internal/config"
	"github.com/shimono/personium-lib-common/pkg/token"
)

var _ token.KeyResolver = (*StaticResolver)(nil)

// StaticResolver maps explicitly configured issuers to their own secrets.
// Used for federated cells whose keys are not derived from the unit master.
type StaticResolver struct {
	secrets map[string][]byte
}

type StaticConfig struct {
	// Secrets maps an issuer URL to its secret.
	Secrets map[string]string `mapstructure:"secrets"`
}

func NewStatic(secrets map[string][]byte) *StaticResolver {
	if secrets == nil {
		secrets = make(map[string][]byte)
	}
	return &StaticResolver{secrets: secrets}
}

func NewStaticFromConfig(cfg config.KeyConfig) (*StaticResolver, error) {
	var conf StaticConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &conf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for static resolver '%s': %w", cfg.Name, err)
	}
	if err := decoder.Decode(cfg.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config for static resolver '%s': %w", cfg.Name, err)
	}

	secrets := make(map[string][]byte, len(conf.Secrets))
	for issuer, secret := range conf.Secrets {
		if secret == "" {
			return nil, fmt.Errorf("static resolver '%s': empty secret for issuer '%s'", cfg.Name, issuer)
		}
		secrets[issuer] = []byte(secret)
	}
	return NewStatic(secrets), nil
}

func (r *StaticResolver) ResolveKey(issuer string) ([]byte, error) {
	secret, ok := r.secrets[issuer]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIssuer, issuer)
	}
	return deriveKey(secret, issuer)
}
