package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"plebai/internal/domain"
)

var (
	// ErrKeyGeneration is returned when no randomness is available for a new key.
	ErrKeyGeneration = errors.New("key generation unavailable")
	// ErrInvalidKey is returned for keys that are neither 32-byte hex nor bech32.
	ErrInvalidKey = errors.New("invalid key")
)

// GenerateSecretKey returns a fresh hex secp256k1 secret key.
func GenerateSecretKey() (string, error) {
	sk := nostr.GeneratePrivateKey()
	if sk == "" {
		return "", ErrKeyGeneration
	}
	return sk, nil
}

// PublicKey derives the x-only hex public key of secretKey.
func PublicKey(secretKey string) (string, error) {
	if !isHex32(secretKey) {
		return "", fmt.Errorf("%w: secret key must be 64 hex characters", ErrInvalidKey)
	}
	pk, err := nostr.GetPublicKey(secretKey)
	if err != nil {
		return "", fmt.Errorf("derive public key: %w", err)
	}
	return pk, nil
}

// NewIdentity generates a key pair held fully in memory.
func NewIdentity() (domain.Identity, error) {
	sk, err := GenerateSecretKey()
	if err != nil {
		return domain.Identity{}, err
	}
	pk, err := PublicKey(sk)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{PublicKey: pk, SecretKey: sk}, nil
}

// ParsePublicKey accepts a hex public key or an npub and returns hex.
func ParsePublicKey(s string) (string, error) {
	return parseKey(s, "npub")
}

// ParseSecretKey accepts a hex secret key or an nsec and returns hex.
func ParseSecretKey(s string) (string, error) {
	return parseKey(s, "nsec")
}

// EncodePublicKey returns the npub form of a hex public key.
func EncodePublicKey(publicKey string) (string, error) {
	if !isHex32(publicKey) {
		return "", fmt.Errorf("%w: public key must be 64 hex characters", ErrInvalidKey)
	}
	return nip19.EncodePublicKey(publicKey)
}

func parseKey(s, prefix string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, prefix+"1") {
		got, val, err := nip19.Decode(s)
		if err != nil {
			return "", fmt.Errorf("%w: decode %s: %w", ErrInvalidKey, prefix, err)
		}
		if got != prefix {
			return "", fmt.Errorf("%w: expected %s prefix, got %s", ErrInvalidKey, prefix, got)
		}
		hexKey, ok := val.(string)
		if !ok || !isHex32(hexKey) {
			return "", fmt.Errorf("%w: malformed %s payload", ErrInvalidKey, prefix)
		}
		return hexKey, nil
	}
	s = strings.ToLower(s)
	if !isHex32(s) {
		return "", fmt.Errorf("%w: want 64 hex characters or %s", ErrInvalidKey, prefix)
	}
	return s, nil
}

func isHex32(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
