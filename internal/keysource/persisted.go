package keysource

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/crypto"
	"plebai/internal/domain"
)

// DefaultSlot is the store slot read when Options.Slot is empty.
const DefaultSlot = "pleb_sk"

// PersistedLocal rehydrates the key from a secret store on every call.
type PersistedLocal struct {
	store domain.SecretStore
	slot  string
}

// NewPersistedLocal reads slot from store on each operation.
func NewPersistedLocal(store domain.SecretStore, slot string) *PersistedLocal {
	if slot == "" {
		slot = DefaultSlot
	}
	return &PersistedLocal{store: store, slot: slot}
}

func (p *PersistedLocal) Method() domain.SecretKeyMethod { return domain.MethodPersistedLocal }

// Slot returns the store slot holding the key.
func (p *PersistedLocal) Slot() string { return p.slot }

func (p *PersistedLocal) PublicKey(context.Context) (string, error) {
	sk, err := p.secret()
	if err != nil {
		return "", err
	}
	return crypto.PublicKey(sk)
}

func (p *PersistedLocal) Encrypt(_ context.Context, peerPublicKey, plaintext string) (string, error) {
	sk, err := p.secret()
	if err != nil {
		return "", err
	}
	return crypto.Encrypt(sk, peerPublicKey, plaintext)
}

func (p *PersistedLocal) Decrypt(_ context.Context, peerPublicKey, ciphertext string) (string, error) {
	sk, err := p.secret()
	if err != nil {
		return "", err
	}
	return crypto.Decrypt(sk, peerPublicKey, ciphertext)
}

func (p *PersistedLocal) Sign(_ context.Context, u domain.UnsignedEvent) (nostr.Event, error) {
	sk, err := p.secret()
	if err != nil {
		return nostr.Event{}, err
	}
	return crypto.SignEvent(sk, u)
}

func (p *PersistedLocal) secret() (string, error) {
	if p.store == nil {
		return "", unavailable("load key", "no secret store present")
	}
	raw, ok, err := p.store.LoadSecret(p.slot)
	if err != nil {
		return "", fmt.Errorf("load key slot %q: %w", p.slot, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: slot %q is empty", domain.ErrKeyNotFound, p.slot)
	}
	sk, err := crypto.ParseSecretKey(raw)
	if err != nil {
		return "", fmt.Errorf("key slot %q: %w", p.slot, err)
	}
	return sk, nil
}

func (p *PersistedLocal) sealed() {}
