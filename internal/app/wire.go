package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"plebai/internal/config"
	"plebai/internal/conversation"
	"plebai/internal/domain"
	"plebai/internal/relay"
	"plebai/internal/signer"
	"plebai/internal/store"
	"plebai/internal/wallet"
)

// Wire bundles the stores and clients a command needs.
type Wire struct {
	Settings *config.Config
	Log      zerolog.Logger
	Pool     *relay.Pool
	Secrets  *store.SecretFileStore
	Signer   *signer.Bunker // nil unless the nip07 method is selected
	Wallet   *wallet.Client // nil unless use_webln is set
}

// NewWire constructs the dependency graph from cfg. Relay connections made
// through the pool live until ctx is done.
func NewWire(ctx context.Context, cfg Config) (*Wire, error) {
	s := cfg.Settings
	if s == nil {
		return nil, fmt.Errorf("%w: no settings", domain.ErrConfiguration)
	}
	method, err := s.Method()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	w := &Wire{
		Settings: s,
		Log:      cfg.Logger,
		Pool:     relay.NewPool(ctx, cfg.Logger, relay.WithPublishTimeout(s.PublishTimeout)),
		Secrets:  store.NewSecretFileStore(s.Home, s.Passphrase),
	}

	if s.UseWebLn {
		w.Wallet, err = wallet.New(w.Pool.SimplePool(), s.NWCURI, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("%w: nwc_uri: %w", domain.ErrConfiguration, err)
		}
	}

	if method == domain.MethodAmbientSigner {
		secret, err := w.bunkerClientSecret()
		if err != nil {
			return nil, err
		}
		w.Signer, err = signer.Connect(ctx, w.Pool.SimplePool(), s.BunkerURI, secret, cfg.OnAuth, cfg.Logger)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Conversation opens a session with the configured agent.
func (w *Wire) Conversation() (*conversation.Conversation, error) {
	cc, err := w.Settings.Conversation()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	opts := conversation.Options{
		Transport: w.Pool,
		Store:     w.Secrets,
		KeySlot:   w.Settings.KeySlot,
		Logger:    &w.Log,
	}
	// Typed nil pointers must not leak into the interfaces.
	if w.Signer != nil {
		opts.Signer = w.Signer
	}
	if w.Wallet != nil {
		opts.Wallet = w.Wallet
	}
	return conversation.New(w.Settings.Agent, w.Settings.Relays, cc, opts)
}
