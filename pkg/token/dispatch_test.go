package token

import (
	"errors"
	"testing"
)

func TestDispatchPrefix(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "visitor access", raw: "AV~abc", want: PrefixVisitorAccess},
		{name: "password change", raw: "AP~abc", want: PrefixPasswordChange},
		{name: "resident access", raw: "AR~abc", want: PrefixResidentAccess},
		{name: "unit local", raw: "AU~abc", want: PrefixUnitLocal},
		{name: "visitor refresh", raw: "RV~abc", want: PrefixVisitorRefresh},
		{name: "resident refresh", raw: "RR~abc", want: PrefixResidentRefresh},
		{name: "unknown", raw: "XX~abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "jwt-looking", raw: "eyJhbGciOi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DispatchPrefix(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnrecognizedVariant) {
					t.Fatalf("DispatchPrefix() error = %v, want ErrUnrecognizedVariant", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DispatchPrefix() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DispatchPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDispatchesToVariant(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	tokens := []Token{
		NewVisitorAccessToken(1700000000000, 3600000, testIssuer, "visitor1",
			[]Role{NewRole(testIssuer, "reader")}, "", []string{"root"}),
		NewPasswordChangeAccessToken(1700000000000, 600000, testIssuer, "account1", ""),
		NewResidentAccessToken(1700000000000, 3600000, testIssuer, "account1", "", []string{"root"}),
		NewUnitLocalToken(1700000000000, 3600000, "https://unit.example/", "unituser", ""),
		NewVisitorRefreshToken(1700000000000, RefreshTokenLifespanMillis, testIssuer, "visitor1",
			[]Role{NewRole(testIssuer, "reader")}, ""),
		NewResidentRefreshToken(1700000000000, RefreshTokenLifespanMillis, testIssuer, "account1", "", nil),
	}

	for _, want := range tokens {
		t.Run(want.Prefix(), func(t *testing.T) {
			raw, err := codec.Encode(want)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := codec.Parse(raw, want.Common().Issuer)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got.Prefix() != want.Prefix() {
				t.Errorf("Parse() routed to %q, want %q", got.Prefix(), want.Prefix())
			}
			if got.Common() != want.Common() {
				t.Errorf("Parse() claims = %+v, want %+v", got.Common(), want.Common())
			}
		})
	}
}

func TestParseUnrecognizedVariant(t *testing.T) {
	resolver := &countingResolver{}
	codec := NewCodec(resolver)

	_, err := codec.Parse("ZZ~whatever", testIssuer)
	if !errors.Is(err, ErrUnrecognizedVariant) {
		t.Fatalf("Parse() error = %v, want ErrUnrecognizedVariant", err)
	}
	if resolver.calls != 0 {
		t.Errorf("key resolver consulted %d times for an unrecognized prefix", resolver.calls)
	}
}

func TestParseMatchedPrefixDoesNotFallThrough(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	// a matching prefix with a broken body must propagate the parse failure
	// instead of trying other variants
	_, err := codec.Parse("AV~broken-body", testIssuer)
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("Parse() error = %v, want ErrDecrypt", err)
	}
}

func TestRegistryPrefixesUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, spec := range registry {
		if _, dup := seen[spec.prefix]; dup {
			t.Fatalf("duplicate prefix %q in registry", spec.prefix)
		}
		seen[spec.prefix] = struct{}{}
	}
}

func TestRefreshTokensCarryGrants(t *testing.T) {
	codec := NewCodec(&countingResolver{})

	roles := []Role{NewRole(testIssuer, "admin"), NewRole(testIssuer, "writer")}
	raw, err := codec.Encode(NewVisitorRefreshToken(1700000000000, RefreshTokenLifespanMillis, testIssuer, "visitor1", roles, ""))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := codec.ParseVisitorRefresh(raw, testIssuer)
	if err != nil {
		t.Fatalf("ParseVisitorRefresh() error = %v", err)
	}
	if len(got.Roles) != 2 || got.Roles[0].Name != "admin" || got.Roles[1].Name != "writer" {
		t.Errorf("Roles = %+v", got.Roles)
	}

	rawRR, err := codec.Encode(NewResidentRefreshToken(1700000000000, RefreshTokenLifespanMillis, testIssuer, "account1", "", []string{"root", "box-read"}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	gotRR, err := codec.ParseResidentRefresh(rawRR, testIssuer)
	if err != nil {
		t.Fatalf("ParseResidentRefresh() error = %v", err)
	}
	if len(gotRR.Scope) != 2 || gotRR.Scope[0] != "root" {
		t.Errorf("Scope = %+v", gotRR.Scope)
	}
}
