package token

import (
	"errors"
	"strings"
	"testing"
)

func TestPasswordChangeTokenRoundTrip(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	tok := NewPasswordChangeAccessToken(1700000000000, 600000, testIssuer, "account1", "https://app.example/")

	raw, err := codec.Encode(tok)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(raw, "AP~") {
		t.Fatalf("Encode() = %q, want AP~ prefix", raw)
	}

	got, err := codec.ParsePasswordChange(raw, testIssuer)
	if err != nil {
		t.Fatalf("ParsePasswordChange() error = %v", err)
	}
	if got.Claims != tok.Claims {
		t.Errorf("claims = %+v, want %+v", got.Claims, tok.Claims)
	}
}

func TestPasswordChangeDefaultLifespan(t *testing.T) {
	tok := NewDefaultPasswordChangeAccessToken(1700000000000, testIssuer, "account1", "")
	if tok.Lifespan != AccessTokenLifespanMillis {
		t.Errorf("Lifespan = %d, want %d", tok.Lifespan, AccessTokenLifespanMillis)
	}
}

func TestPasswordChangeGarbageBody(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	// a non-decryptable suffix must surface as a normalized parse error,
	// never as an unrelated fault
	_, err := codec.ParsePasswordChange("AP~this-is-not-a-token", testIssuer)
	if err == nil {
		t.Fatal("expected error")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("error = %v, want ErrDecrypt", err)
	}
}

func TestPasswordChangeFieldCount(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	tests := []struct {
		name   string
		fields []string
	}{
		{
			name:   "too few",
			fields: []string{formatIssuedAt(1700000000000), "3600000", "account1", ""},
		},
		{
			name:   "too many",
			fields: []string{formatIssuedAt(1700000000000), "3600000", "account1", "", testIssuer, "extra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := serializeFields(tt.fields)
			if err != nil {
				t.Fatalf("serializeFields() error = %v", err)
			}
			body, err := encryptPayload(testKey(testIssuer), []byte(payload))
			if err != nil {
				t.Fatalf("encryptPayload() error = %v", err)
			}

			if _, err := codec.ParsePasswordChange(PrefixPasswordChange+body, testIssuer); !errors.Is(err, ErrFieldCount) {
				t.Errorf("ParsePasswordChange() error = %v, want ErrFieldCount", err)
			}
		})
	}
}

func TestPasswordChangeNonNumericTimestamp(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	payload, err := serializeFields([]string{"yadayada", "3600000", "account1", "", testIssuer})
	if err != nil {
		t.Fatalf("serializeFields() error = %v", err)
	}
	body, err := encryptPayload(testKey(testIssuer), []byte(payload))
	if err != nil {
		t.Fatalf("encryptPayload() error = %v", err)
	}

	if _, err := codec.ParsePasswordChange(PrefixPasswordChange+body, testIssuer); !errors.Is(err, ErrNumericField) {
		t.Errorf("ParsePasswordChange() error = %v, want ErrNumericField", err)
	}
}
