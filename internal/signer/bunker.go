package signer

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip46"
	"github.com/rs/zerolog"

	"plebai/internal/domain"
)

var (
	_ domain.Signer = (*Bunker)(nil)
	_ domain.Cipher = (*Bunker)(nil)
)

// remote is the part of nip46.BunkerClient that Bunker uses.
type remote interface {
	GetPublicKey(ctx context.Context) (string, error)
	SignEvent(ctx context.Context, evt *nostr.Event) error
	NIP04Encrypt(ctx context.Context, targetPublicKey, plaintext string) (string, error)
	NIP04Decrypt(ctx context.Context, targetPublicKey, ciphertext string) (string, error)
}

// Bunker is a domain.Signer and domain.Cipher backed by a NIP-46 remote
// signer.
type Bunker struct {
	remote remote
	log    zerolog.Logger
}

// AuthHandler is invoked with a URL the user must open to approve this
// client.
type AuthHandler func(url string)

// Connect dials the bunker described by bunkerURI through pool.
// clientSecret identifies this client to the bunker; reusing it avoids a new
// approval on every run.
func Connect(ctx context.Context, pool *nostr.SimplePool, bunkerURI, clientSecret string, onAuth AuthHandler, log zerolog.Logger) (*Bunker, error) {
	uri, err := ParseURI(bunkerURI)
	if err != nil {
		return nil, err
	}
	log = log.With().Str("component", "signer").Str("bunker", uri.RemotePublicKey[:12]).Logger()
	if onAuth == nil {
		onAuth = func(url string) {
			log.Warn().Str("url", url).Msg("remote signer requires authorization")
		}
	}

	client, err := nip46.ConnectBunker(ctx, clientSecret, bunkerURI, pool, onAuth)
	if err != nil {
		return nil, fmt.Errorf("%w: connect bunker: %w", domain.ErrCapabilityUnavailable, err)
	}
	log.Debug().Strs("relays", uri.Relays).Msg("connected to remote signer")
	return &Bunker{remote: client, log: log}, nil
}

func (b *Bunker) GetPublicKey(ctx context.Context) (string, error) {
	pk, err := b.remote.GetPublicKey(ctx)
	if err != nil {
		return "", fmt.Errorf("bunker get_public_key: %w", err)
	}
	return pk, nil
}

func (b *Bunker) SignEvent(ctx context.Context, evt *nostr.Event) error {
	if err := b.remote.SignEvent(ctx, evt); err != nil {
		return fmt.Errorf("bunker sign_event: %w", err)
	}
	b.log.Debug().Str("event_id", evt.ID).Int("kind", evt.Kind).Msg("event signed remotely")
	return nil
}

func (b *Bunker) Encrypt(ctx context.Context, peer, plaintext string) (string, error) {
	ct, err := b.remote.NIP04Encrypt(ctx, peer, plaintext)
	if err != nil {
		return "", fmt.Errorf("bunker nip04_encrypt: %w", err)
	}
	return ct, nil
}

func (b *Bunker) Decrypt(ctx context.Context, peer, ciphertext string) (string, error) {
	pt, err := b.remote.NIP04Decrypt(ctx, peer, ciphertext)
	if err != nil {
		return "", fmt.Errorf("bunker nip04_decrypt: %w", err)
	}
	return pt, nil
}
