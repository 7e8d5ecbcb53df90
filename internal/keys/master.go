package keys

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/crypto/hkdf"

	"github.com/shimono/personium-lib-common/internal/config"
	"github.com/shimono/personium-lib-common/pkg/token"
)

const keyLength = 32 // AES-256

var _ token.KeyResolver = (*MasterResolver)(nil)

// MasterResolver derives a distinct AES key for every issuer from a single
// unit master secret, so any cell hosted by the unit can be verified without
// per-cell key provisioning.
type MasterResolver struct {
	secret []byte
}

type MasterConfig struct {
	// Secret is the unit master secret.
	Secret string `mapstructure:"secret"`
}

func NewMaster(secret []byte) (*MasterResolver, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("master secret must not be empty")
	}
	return &MasterResolver{secret: secret}, nil
}

func NewMasterFromConfig(cfg config.KeyConfig) (*MasterResolver, error) {
	var conf MasterConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &conf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for master resolver '%s': %w", cfg.Name, err)
	}
	if err := decoder.Decode(cfg.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config for master resolver '%s': %w", cfg.Name, err)
	}
	return NewMaster([]byte(conf.Secret))
}

func (r *MasterResolver) ResolveKey(issuer string) ([]byte, error) {
	return deriveKey(r.secret, issuer)
}

// deriveKey expands a secret into the per-issuer AES key via HKDF-SHA256,
// with the issuer URL as the binding info.
func deriveKey(secret []byte, issuer string) ([]byte, error) {
	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(issuer)), key); err != nil {
		return nil, fmt.Errorf("deriving key for issuer %q: %w", issuer, err)
	}
	return key, nil
}
