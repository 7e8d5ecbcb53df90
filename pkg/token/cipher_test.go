package token

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"
)

// countingResolver derives a deterministic per-issuer key and records how
// often it was consulted.
type countingResolver struct {
	calls int
}

func (r *countingResolver) ResolveKey(issuer string) ([]byte, error) {
	r.calls++
	key := sha256.Sum256([]byte("test-secret|" + issuer))
	return key[:], nil
}

func testKey(issuer string) []byte {
	key := sha256.Sum256([]byte("test-secret|" + issuer))
	return key[:]
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey("https://cell.example/")
	plain := []byte("0000000000071\t3600000\tuser1\t\thttps://cell.example/")

	body, err := encryptPayload(key, plain)
	if err != nil {
		t.Fatalf("encryptPayload() error = %v", err)
	}

	got, err := decryptPayload(key, body)
	if err != nil {
		t.Fatalf("decryptPayload() error = %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("decryptPayload() = %q, want %q", got, plain)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	body, err := encryptPayload(testKey("https://a.example/"), []byte("payload"))
	if err != nil {
		t.Fatalf("encryptPayload() error = %v", err)
	}
	if _, err := decryptPayload(testKey("https://b.example/"), body); !errors.Is(err, ErrDecrypt) {
		t.Errorf("decryptPayload() error = %v, want ErrDecrypt", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	key := testKey("https://cell.example/")
	body, err := encryptPayload(key, []byte("some payload"))
	if err != nil {
		t.Fatalf("encryptPayload() error = %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		t.Fatalf("decoding ciphertext: %v", err)
	}

	// flipping any single byte must fail decryption, never silently
	// succeed with different fields
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := decryptPayload(key, base64.RawURLEncoding.EncodeToString(tampered))
		if !errors.Is(err, ErrDecrypt) {
			t.Fatalf("byte %d: decryptPayload() error = %v, want ErrDecrypt", i, err)
		}
	}
}

func TestDecryptMalformedInput(t *testing.T) {
	key := testKey("https://cell.example/")

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid base64", body: "!!not-base64!!"},
		{name: "empty", body: ""},
		{name: "shorter than nonce", body: base64.RawURLEncoding.EncodeToString([]byte{1, 2, 3})},
		{name: "garbage", body: base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 48))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decryptPayload(key, tt.body); !errors.Is(err, ErrDecrypt) {
				t.Errorf("decryptPayload() error = %v, want ErrDecrypt", err)
			}
		})
	}
}
