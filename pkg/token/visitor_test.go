package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testIssuer = "https://cell.example/"

func TestVisitorAccessTokenRoundTrip(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	tok := NewVisitorAccessToken(
		1700000000000,
		3600000,
		testIssuer,
		"user1",
		[]Role{{Name: "admin", URL: "https://cell.example/__role/admin"}},
		"",
		nil,
	)

	raw, err := codec.Encode(tok)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(raw, "AV~") {
		t.Fatalf("Encode() = %q, want AV~ prefix", raw)
	}

	got, err := codec.ParseVisitorAccess(raw, testIssuer)
	if err != nil {
		t.Fatalf("ParseVisitorAccess() error = %v", err)
	}

	if got.ID() != "user1:1700000000000" {
		t.Errorf("ID() = %q, want %q", got.ID(), "user1:1700000000000")
	}
	if len(got.Roles) != 1 || got.Roles[0] != tok.Roles[0] {
		t.Errorf("Roles = %+v, want %+v", got.Roles, tok.Roles)
	}
	if got.Target() != "" {
		t.Errorf("Target() = %q, want empty", got.Target())
	}
	if got.ExtCellURL() != testIssuer {
		t.Errorf("ExtCellURL() = %q, want %q", got.ExtCellURL(), testIssuer)
	}
	if diff := cmp.Diff(tok.Claims, got.Claims); diff != "" {
		t.Errorf("claims mismatch (-want +got):\n%s", diff)
	}
}

func TestVisitorAccessTokenScopeRoundTrip(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	tok := NewVisitorAccessToken(1700000000000, 3600000, testIssuer, "user1",
		nil, "https://app.example/", []string{"root", "message-read"})

	raw, err := codec.Encode(tok)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := codec.ParseVisitorAccess(raw, testIssuer)
	if err != nil {
		t.Fatalf("ParseVisitorAccess() error = %v", err)
	}
	if diff := cmp.Diff([]string{"root", "message-read"}, got.Scope); diff != "" {
		t.Errorf("scope mismatch (-want +got):\n%s", diff)
	}
	if got.Schema != "https://app.example/" {
		t.Errorf("Schema = %q", got.Schema)
	}
}

func TestVisitorAccessPrefixIsolation(t *testing.T) {
	resolver := &countingResolver{}
	codec := NewCodec(resolver)

	raw, err := codec.Encode(NewVisitorAccessToken(1700000000000, 3600000, testIssuer, "user1", nil, "", nil))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	resolver.calls = 0

	// a visitor token handed to the password-change parser must fail on the
	// prefix alone, before any key is resolved
	if _, err := codec.ParsePasswordChange(raw, testIssuer); !errors.Is(err, ErrMalformedPrefix) {
		t.Fatalf("ParsePasswordChange() error = %v, want ErrMalformedPrefix", err)
	}
	if resolver.calls != 0 {
		t.Errorf("key resolver consulted %d times for a prefix mismatch", resolver.calls)
	}
}

func TestVisitorAccessEmptyIssuerRejected(t *testing.T) {
	resolver := &countingResolver{}
	codec := NewCodec(resolver)

	raw, err := codec.Encode(NewVisitorAccessToken(1700000000000, 3600000, testIssuer, "user1", nil, "", nil))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	resolver.calls = 0

	if _, err := codec.ParseVisitorAccess(raw, ""); !errors.Is(err, ErrMalformedPrefix) {
		t.Fatalf("ParseVisitorAccess() error = %v, want ErrMalformedPrefix", err)
	}
	if resolver.calls != 0 {
		t.Errorf("key resolver consulted %d times for an absent issuer", resolver.calls)
	}
}

func TestVisitorAccessMalformedRoleFailsParse(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	// hand-build a payload whose role field is not a valid URL
	payload, err := serializeFields([]string{
		formatIssuedAt(1700000000000), "3600000", "user1", "", testIssuer,
		"::still-not-a-url::", "",
	})
	if err != nil {
		t.Fatalf("serializeFields() error = %v", err)
	}
	body, err := encryptPayload(testKey(testIssuer), []byte(payload))
	if err != nil {
		t.Fatalf("encryptPayload() error = %v", err)
	}

	_, err = codec.ParseVisitorAccess(PrefixVisitorAccess+body, testIssuer)
	if !errors.Is(err, ErrMalformedReference) {
		t.Errorf("ParseVisitorAccess() error = %v, want ErrMalformedReference", err)
	}
}

func TestVisitorAccessWrongIssuerFailsDecrypt(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	raw, err := codec.Encode(NewVisitorAccessToken(1700000000000, 3600000, testIssuer, "user1", nil, "", nil))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := codec.ParseVisitorAccess(raw, "https://impostor.example/"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("ParseVisitorAccess() error = %v, want ErrDecrypt", err)
	}
}
