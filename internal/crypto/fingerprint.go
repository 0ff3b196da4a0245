package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"plebai/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a hex public key.
//
// It hashes the raw 32 key bytes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(publicKey string) (domain.Fingerprint, error) {
	raw, err := hex.DecodeString(publicKey)
	if err != nil || len(raw) != 32 {
		return "", fmt.Errorf("fingerprint: invalid public key %q", publicKey)
	}
	sum := sha256.Sum256(raw)
	return domain.Fingerprint(hex.EncodeToString(sum[:10])), nil
}
