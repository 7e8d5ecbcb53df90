package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint returns a stable, non-reversible identifier for a token
// string, safe to write to logs and audit entries.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
