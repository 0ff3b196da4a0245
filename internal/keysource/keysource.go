package keysource

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/domain"
)

// KeySource is the capability set shared by every strategy. It is sealed:
// only the types in this package implement it.
type KeySource interface {
	Method() domain.SecretKeyMethod
	PublicKey(ctx context.Context) (string, error)
	Encrypt(ctx context.Context, peerPublicKey, plaintext string) (string, error)
	Decrypt(ctx context.Context, peerPublicKey, ciphertext string) (string, error)
	Sign(ctx context.Context, u domain.UnsignedEvent) (nostr.Event, error)

	sealed()
}

// Options carries the collaborators a strategy may need.
type Options struct {
	// Signer backs MethodAmbientSigner.
	Signer domain.Signer
	// Store and Slot back MethodPersistedLocal. Slot defaults to "pleb_sk".
	Store domain.SecretStore
	Slot  string
}

// New builds the strategy selected by method.
func New(method domain.SecretKeyMethod, opts Options) (KeySource, error) {
	switch method {
	case domain.MethodAmbientSigner:
		return NewAmbientSigner(opts.Signer), nil
	case domain.MethodEphemeral, "":
		return NewEphemeral()
	case domain.MethodPersistedLocal:
		return NewPersistedLocal(opts.Store, opts.Slot), nil
	}
	return nil, fmt.Errorf("%w: invalid secret key method %q", domain.ErrConfiguration, method)
}
