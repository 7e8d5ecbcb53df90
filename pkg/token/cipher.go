package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeyResolver supplies the symmetric key bound to an issuer URL. The codec
// never reads key material from configuration or the environment itself;
// key storage and rotation belong to the caller.
type KeyResolver interface {
	// ResolveKey returns the AES key for the given issuer.
	ResolveKey(issuer string) ([]byte, error)
}

// KeyResolverFunc adapts a function to the KeyResolver interface.
type KeyResolverFunc func(issuer string) ([]byte, error)

func (f KeyResolverFunc) ResolveKey(issuer string) ([]byte, error) {
	return f(issuer)
}

// encryptPayload seals the plaintext with AES-GCM under the issuer key and
// encodes nonce||ciphertext into the URL-safe base64 alphabet, so the whole
// token is transport-safe in headers and URLs.
func encryptPayload(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// decryptPayload reverses encryptPayload. Every failure mode surfaces as the
// same generic ErrDecrypt so that a probing attacker cannot distinguish a
// wrong key from corrupted data.
func decryptPayload(key []byte, body string) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, newParseError(ErrDecrypt, "", nil)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newParseError(ErrDecrypt, "", nil)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, newParseError(ErrDecrypt, "", nil)
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, newParseError(ErrDecrypt, "", nil)
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, newParseError(ErrDecrypt, "", nil)
	}
	return plain, nil
}
