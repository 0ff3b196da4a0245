package interfaces

import (
	"context"

	"github.com/nbd-wtf/go-nostr"

	domaintypes "plebai/internal/domain/types"
)

// Signer is an external holder of the user's key that can sign events.
type Signer interface {
	GetPublicKey(ctx context.Context) (string, error)
	// SignEvent sets PubKey, ID and Sig on evt.
	SignEvent(ctx context.Context, evt *nostr.Event) error
}

// Cipher is the optional NIP-04 capability of a Signer.
type Cipher interface {
	Encrypt(ctx context.Context, peerPublicKey, plaintext string) (string, error)
	Decrypt(ctx context.Context, peerPublicKey, ciphertext string) (string, error)
}

// Wallet pays lightning invoices.
type Wallet interface {
	Enable(ctx context.Context) error
	SendPayment(ctx context.Context, invoice string) (domaintypes.Payment, error)
}
