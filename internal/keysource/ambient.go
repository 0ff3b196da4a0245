package keysource

import (
	"context"
	"errors"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/crypto"
	"plebai/internal/domain"
)

// AmbientSigner delegates to an externally provided signer.
type AmbientSigner struct {
	signer domain.Signer
}

// NewAmbientSigner wraps s. A nil signer is accepted; its absence surfaces
// as domain.ErrCapabilityUnavailable when an operation is attempted.
func NewAmbientSigner(s domain.Signer) *AmbientSigner {
	return &AmbientSigner{signer: s}
}

func (a *AmbientSigner) Method() domain.SecretKeyMethod { return domain.MethodAmbientSigner }

func (a *AmbientSigner) PublicKey(ctx context.Context) (string, error) {
	if a.signer == nil {
		return "", unavailable("get public key", "no signer present")
	}
	pk, err := a.signer.GetPublicKey(ctx)
	if err != nil {
		return "", fmt.Errorf("ambient signer public key: %w", err)
	}
	hexKey, err := crypto.ParsePublicKey(pk)
	if err != nil {
		return "", fmt.Errorf("ambient signer public key: %w", err)
	}
	return hexKey, nil
}

func (a *AmbientSigner) Encrypt(ctx context.Context, peerPublicKey, plaintext string) (string, error) {
	c, err := a.cipher("encrypt")
	if err != nil {
		return "", err
	}
	ct, err := c.Encrypt(ctx, peerPublicKey, plaintext)
	if err != nil {
		return "", fmt.Errorf("ambient signer encrypt: %w", err)
	}
	return ct, nil
}

func (a *AmbientSigner) Decrypt(ctx context.Context, peerPublicKey, ciphertext string) (string, error) {
	c, err := a.cipher("decrypt")
	if err != nil {
		return "", err
	}
	pt, err := c.Decrypt(ctx, peerPublicKey, ciphertext)
	if err != nil {
		if errors.Is(err, domain.ErrDecryptionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: ambient signer: %w", domain.ErrDecryptionFailed, err)
	}
	return pt, nil
}

// Sign hands the template to the signer and checks the id and signature it
// returns against the event fields.
func (a *AmbientSigner) Sign(ctx context.Context, u domain.UnsignedEvent) (nostr.Event, error) {
	if a.signer == nil {
		return nostr.Event{}, unavailable("sign", "no signer present")
	}
	evt := u.Event()
	if err := a.signer.SignEvent(ctx, &evt); err != nil {
		return nostr.Event{}, fmt.Errorf("ambient signer sign: %w", err)
	}
	if err := crypto.VerifyEvent(evt); err != nil {
		return nostr.Event{}, fmt.Errorf("ambient signer returned an invalid event: %w", err)
	}
	return evt, nil
}

func (a *AmbientSigner) cipher(op string) (domain.Cipher, error) {
	if a.signer == nil {
		return nil, unavailable(op, "no signer present")
	}
	c, ok := a.signer.(domain.Cipher)
	if !ok {
		return nil, unavailable(op, "signer does not support NIP-04 encryption")
	}
	return c, nil
}

func (a *AmbientSigner) sealed() {}

func unavailable(op, reason string) error {
	return fmt.Errorf("%w: %s: %s: %w", domain.ErrUnsupportedOperation, op, reason, domain.ErrCapabilityUnavailable)
}
