package token

import (
	"testing"
	"time"
)

func TestEncodeValidation(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	tests := []struct {
		name string
		tok  Token
	}{
		{
			name: "empty issuer",
			tok:  NewPasswordChangeAccessToken(1700000000000, 600000, "", "account1", ""),
		},
		{
			name: "negative issuedAt",
			tok:  NewPasswordChangeAccessToken(-1, 600000, testIssuer, "account1", ""),
		},
		{
			name: "zero lifespan",
			tok:  NewPasswordChangeAccessToken(1700000000000, 0, testIssuer, "account1", ""),
		},
		{
			name: "separator in subject",
			tok:  NewPasswordChangeAccessToken(1700000000000, 600000, testIssuer, "acc\tount", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := codec.Encode(tt.tok); err == nil {
				t.Error("Encode() succeeded, want error")
			}
		})
	}
}

func TestClaimsExpiry(t *testing.T) {
	c := Claims{IssuedAt: 1700000000000, Lifespan: 3600000}

	wantExpiry := time.UnixMilli(1700003600000)
	if !c.ExpiresAt().Equal(wantExpiry) {
		t.Errorf("ExpiresAt() = %v, want %v", c.ExpiresAt(), wantExpiry)
	}

	tests := []struct {
		name string
		now  time.Time
		skew time.Duration
		want bool
	}{
		{name: "before expiry", now: time.UnixMilli(1700000000001), want: false},
		{name: "at expiry", now: wantExpiry, want: false},
		{name: "after expiry", now: wantExpiry.Add(time.Millisecond), want: true},
		{name: "within skew", now: wantExpiry.Add(30 * time.Second), skew: time.Minute, want: false},
		{name: "beyond skew", now: wantExpiry.Add(2 * time.Minute), skew: time.Minute, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ExpiredAt(tt.now, tt.skew); got != tt.want {
				t.Errorf("ExpiredAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokensAreIndependentValues(t *testing.T) {
	// parsing twice yields equal but independent values
	codec := NewCodec(&countingResolver{})

	raw, err := codec.Encode(NewVisitorAccessToken(1700000000000, 3600000, testIssuer, "user1",
		[]Role{NewRole(testIssuer, "admin")}, "", nil))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	a, err := codec.ParseVisitorAccess(raw, testIssuer)
	if err != nil {
		t.Fatalf("ParseVisitorAccess() error = %v", err)
	}
	b, err := codec.ParseVisitorAccess(raw, testIssuer)
	if err != nil {
		t.Fatalf("ParseVisitorAccess() error = %v", err)
	}

	a.Roles[0].Name = "mutated"
	if b.Roles[0].Name != "admin" {
		t.Error("parsed tokens share backing storage")
	}
}

func TestEncodeIsNonDeterministic(t *testing.T) {
	// a fresh nonce per encode means two encodings of the same token differ
	codec := NewCodec(&countingResolver{})
	tok := NewPasswordChangeAccessToken(1700000000000, 600000, testIssuer, "account1", "")

	a, err := codec.Encode(tok)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := codec.Encode(tok)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if a == b {
		t.Error("two encodings are identical; nonce reuse?")
	}
}
