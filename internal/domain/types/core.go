package types

import (
	"fmt"
	"strings"
)

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// SecretKeyMethod selects how the local identity's key material is resolved.
type SecretKeyMethod string

const (
	// MethodAmbientSigner delegates every key operation to an external signer.
	MethodAmbientSigner SecretKeyMethod = "nip07"
	// MethodEphemeral generates a single-use key when the session is built.
	MethodEphemeral SecretKeyMethod = "throwaway"
	// MethodPersistedLocal reads the key from a named slot on every operation.
	MethodPersistedLocal SecretKeyMethod = "localstorage"
)

// String returns the string form of the method.
func (m SecretKeyMethod) String() string { return string(m) }

// ParseSecretKeyMethod accepts the canonical names plus a few aliases.
// An empty string selects MethodEphemeral.
func ParseSecretKeyMethod(s string) (SecretKeyMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "throwaway", "ephemeral":
		return MethodEphemeral, nil
	case "nip07", "ambient", "ambient-signer", "nip46", "bunker":
		return MethodAmbientSigner, nil
	case "localstorage", "local", "persisted", "persisted-local":
		return MethodPersistedLocal, nil
	}
	return "", fmt.Errorf("unknown secret key method %q", s)
}
