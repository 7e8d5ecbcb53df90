package token

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldSeparator joins the payload fields before encryption. It is reserved:
// no field value may contain it.
const fieldSeparator = "\t"

func serializeFields(fields []string) (string, error) {
	for i, f := range fields {
		if strings.Contains(f, fieldSeparator) {
			return "", fmt.Errorf("field #%d contains the reserved separator", i)
		}
	}
	return strings.Join(fields, fieldSeparator), nil
}

func splitFields(payload string, want int) ([]string, error) {
	fields := strings.Split(payload, fieldSeparator)
	if len(fields) != want {
		return nil, newParseError(ErrFieldCount, "", fmt.Errorf("got %d fields, want %d", len(fields), want))
	}
	return fields, nil
}

// formatIssuedAt writes the issuance timestamp with its decimal digits
// reversed. This is a light obfuscation against pattern matching on the
// plaintext, not a cryptographic measure (the payload is encrypted anyway).
func formatIssuedAt(millis int64) string {
	return reverseString(strconv.FormatInt(millis, 10))
}

func parseIssuedAt(field string) (int64, error) {
	v, err := strconv.ParseInt(reverseString(field), 10, 64)
	if err != nil || v < 0 {
		return 0, newParseError(ErrNumericField, "issued_at", err)
	}
	return v, nil
}

func parseLifespan(field string) (int64, error) {
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil || v < 0 {
		return 0, newParseError(ErrNumericField, "lifespan", err)
	}
	return v, nil
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
