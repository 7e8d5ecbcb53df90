package token

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for parse failures. Match with errors.Is.
var (
	// ErrMalformedPrefix indicates the token string does not start with the
	// prefix expected by the variant being parsed.
	ErrMalformedPrefix = errors.New("malformed token prefix")

	// ErrDecrypt indicates the payload could not be decrypted under the
	// resolved issuer key. The cause is deliberately not distinguished
	// (wrong key, truncation, tampering) to avoid acting as a decryption oracle.
	ErrDecrypt = errors.New("token payload decryption failed")

	// ErrFieldCount indicates the decrypted payload split into a different
	// number of fields than the variant expects.
	ErrFieldCount = errors.New("unexpected payload field count")

	// ErrNumericField indicates issuedAt or lifespan is not a valid
	// non-negative integer.
	ErrNumericField = errors.New("invalid numeric payload field")

	// ErrMalformedReference indicates a role-list entry is not a valid URL.
	ErrMalformedReference = errors.New("malformed role reference")

	// ErrUnrecognizedVariant indicates no registered variant matched the
	// token prefix.
	ErrUnrecognizedVariant = errors.New("unrecognized token kind")
)

// ParseError is the single failure type returned by all decode paths.
// Kind is one of the sentinel errors above; Field names the offending
// field where it is safe to disclose.
type ParseError struct {
	Kind  error
	Field string

	cause error
}

func newParseError(kind error, field string, cause error) *ParseError {
	return &ParseError{Kind: kind, Field: field, cause: cause}
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field %q)", e.Kind.Error(), e.Field)
	}
	return e.Kind.Error()
}

// Is reports whether target matches the error kind, so callers can use
// errors.Is(err, token.ErrDecrypt) and similar.
func (e *ParseError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func (e *ParseError) Unwrap() error {
	return e.cause
}
