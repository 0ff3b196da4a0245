package keysource

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/crypto"
	"plebai/internal/domain"
)

// Ephemeral holds a single-use key generated at construction.
type Ephemeral struct {
	id domain.Identity
}

// NewEphemeral generates the key pair; it fails if no randomness is available.
func NewEphemeral() (*Ephemeral, error) {
	id, err := crypto.NewIdentity()
	if err != nil {
		return nil, fmt.Errorf("%w: generate throwaway key: %w", domain.ErrCapabilityUnavailable, err)
	}
	return &Ephemeral{id: id}, nil
}

func (e *Ephemeral) Method() domain.SecretKeyMethod { return domain.MethodEphemeral }

func (e *Ephemeral) PublicKey(context.Context) (string, error) { return e.id.PublicKey, nil }

func (e *Ephemeral) Encrypt(_ context.Context, peerPublicKey, plaintext string) (string, error) {
	return crypto.Encrypt(e.id.SecretKey, peerPublicKey, plaintext)
}

func (e *Ephemeral) Decrypt(_ context.Context, peerPublicKey, ciphertext string) (string, error) {
	return crypto.Decrypt(e.id.SecretKey, peerPublicKey, ciphertext)
}

func (e *Ephemeral) Sign(_ context.Context, u domain.UnsignedEvent) (nostr.Event, error) {
	return crypto.SignEvent(e.id.SecretKey, u)
}

func (e *Ephemeral) sealed() {}
