package token

import (
	"errors"
	"testing"
)

func TestSerializeFields(t *testing.T) {
	t.Run("joins with separator", func(t *testing.T) {
		got, err := serializeFields([]string{"a", "b", "c"})
		if err != nil {
			t.Fatalf("serializeFields() error = %v", err)
		}
		if got != "a\tb\tc" {
			t.Errorf("serializeFields() = %q", got)
		}
	})

	t.Run("rejects reserved separator in field", func(t *testing.T) {
		if _, err := serializeFields([]string{"a", "b\tc"}); err == nil {
			t.Error("expected error for field containing separator")
		}
	})
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
		wantErr bool
	}{
		{name: "exact count", payload: "a\tb\tc", want: 3},
		{name: "too few", payload: "a\tb", want: 3, wantErr: true},
		{name: "too many", payload: "a\tb\tc\td", want: 3, wantErr: true},
		{name: "empty fields preserved", payload: "\t\t", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitFields(tt.payload, tt.want)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldCount) {
					t.Fatalf("splitFields() error = %v, want ErrFieldCount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitFields() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("splitFields() returned %d fields, want %d", len(got), tt.want)
			}
		})
	}
}

func TestIssuedAtObfuscation(t *testing.T) {
	t.Run("digits are reversed", func(t *testing.T) {
		if got := formatIssuedAt(1700000000000); got != "0000000000071" {
			t.Errorf("formatIssuedAt() = %q", got)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := parseIssuedAt(formatIssuedAt(1700000000000))
		if err != nil {
			t.Fatalf("parseIssuedAt() error = %v", err)
		}
		if got != 1700000000000 {
			t.Errorf("parseIssuedAt() = %d", got)
		}
	})

	t.Run("non-numeric fails", func(t *testing.T) {
		if _, err := parseIssuedAt("not-a-number"); !errors.Is(err, ErrNumericField) {
			t.Errorf("parseIssuedAt() error = %v, want ErrNumericField", err)
		}
	})

	t.Run("negative fails", func(t *testing.T) {
		// "5-" un-reverses to "-5"
		if _, err := parseIssuedAt("5-"); !errors.Is(err, ErrNumericField) {
			t.Errorf("parseIssuedAt() error = %v, want ErrNumericField", err)
		}
	})
}

func TestParseLifespan(t *testing.T) {
	if got, err := parseLifespan("3600000"); err != nil || got != 3600000 {
		t.Errorf("parseLifespan() = %d, %v", got, err)
	}
	if _, err := parseLifespan("-1"); !errors.Is(err, ErrNumericField) {
		t.Errorf("parseLifespan(-1) error = %v, want ErrNumericField", err)
	}
	if _, err := parseLifespan("1h"); !errors.Is(err, ErrNumericField) {
		t.Errorf("parseLifespan(1h) error = %v, want ErrNumericField", err)
	}
}

func TestReverseString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "321"},
	}
	for _, tt := range tests {
		if got := reverseString(tt.in); got != tt.want {
			t.Errorf("reverseString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
