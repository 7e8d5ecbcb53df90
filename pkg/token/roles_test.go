package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name    string
		cellURL string
		role    string
		wantURL string
	}{
		{name: "trailing slash", cellURL: "https://cell.example/", role: "admin", wantURL: "https://cell.example/__role/admin"},
		{name: "no trailing slash", cellURL: "https://cell.example", role: "admin", wantURL: "https://cell.example/__role/admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRole(tt.cellURL, tt.role)
			if got.URL != tt.wantURL || got.Name != tt.role {
				t.Errorf("NewRole() = %+v", got)
			}
		})
	}
}

func TestRolesRoundTrip(t *testing.T) {
	roles := []Role{
		NewRole("https://cell.example/", "admin"),
		NewRole("https://cell.example/", "reader"),
		NewRole("https://other.example/", "guest"),
	}

	got, err := decodeRoles(encodeRoles(roles))
	if err != nil {
		t.Fatalf("decodeRoles() error = %v", err)
	}
	if diff := cmp.Diff(roles, got); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRolesEmpty(t *testing.T) {
	got, err := decodeRoles("")
	if err != nil {
		t.Fatalf("decodeRoles() error = %v", err)
	}
	if got == nil {
		t.Fatal("decodeRoles(\"\") = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("decodeRoles(\"\") returned %d roles", len(got))
	}
}

func TestDecodeRolesAtomicity(t *testing.T) {
	// one valid and one invalid entry must fail the whole decode
	field := "https://cell.example/__role/admin" + roleSeparator + "::not-a-url::"

	got, err := decodeRoles(field)
	if !errors.Is(err, ErrMalformedReference) {
		t.Fatalf("decodeRoles() error = %v, want ErrMalformedReference", err)
	}
	if got != nil {
		t.Errorf("decodeRoles() returned partial result %+v", got)
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatal("error is not a *ParseError")
	}
	if perr.Field != "::not-a-url::" {
		t.Errorf("ParseError.Field = %q", perr.Field)
	}
}

func TestDecodeRolesRelativeURL(t *testing.T) {
	if _, err := decodeRoles("/__role/admin"); !errors.Is(err, ErrMalformedReference) {
		t.Errorf("decodeRoles() error = %v, want ErrMalformedReference", err)
	}
}

func TestRoleNameDerivedFromURL(t *testing.T) {
	got, err := decodeRoles("https://cell.example/__role/editor")
	if err != nil {
		t.Fatalf("decodeRoles() error = %v", err)
	}
	if got[0].Name != "editor" {
		t.Errorf("Name = %q, want %q", got[0].Name, "editor")
	}
}
