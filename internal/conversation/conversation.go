package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"

	"plebai/internal/crypto"
	"plebai/internal/domain"
	"plebai/internal/keysource"
	"plebai/internal/payment"
)

// Options injects the collaborators of a Conversation.
type Options struct {
	// Transport is required.
	Transport domain.Transport
	// Signer backs domain.MethodAmbientSigner.
	Signer domain.Signer
	// Store and KeySlot back domain.MethodPersistedLocal.
	Store   domain.SecretStore
	KeySlot string
	// Wallet pays invoices when UseWebLn is set.
	Wallet domain.Wallet
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Conversation is a session with one agent. Its fields are fixed at
// construction, so it is safe for concurrent use.
type Conversation struct {
	agent     string
	relays    []string
	cfg       domain.ConversationConfig
	keys      keysource.KeySource
	transport domain.Transport
	payments  *payment.Handler
	log       zerolog.Logger
	now       func() time.Time
}

// New binds the agent key (hex or npub), the relay set and the key strategy.
// For the throwaway strategy the key is generated here.
func New(agentKey string, relays []string, cfg domain.ConversationConfig, opts Options) (*Conversation, error) {
	agent, err := crypto.ParsePublicKey(agentKey)
	if err != nil {
		return nil, fmt.Errorf("%w: agent key: %w", domain.ErrConfiguration, err)
	}
	urls := normalizeRelays(relays)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: at least one relay is required", domain.ErrConfiguration)
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("%w: no transport", domain.ErrConfiguration)
	}
	if cfg.SecretKeyMethod == "" {
		cfg.SecretKeyMethod = domain.MethodEphemeral
	}

	keys, err := keysource.New(cfg.SecretKeyMethod, keysource.Options{
		Signer: opts.Signer,
		Store:  opts.Store,
		Slot:   opts.KeySlot,
	})
	if err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	log = log.With().
		Str("agent", short(agent)).
		Str("method", cfg.SecretKeyMethod.String()).
		Logger()
	if cfg.ProviderHost != "" {
		log = log.With().Str("provider", cfg.ProviderHost).Logger()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Conversation{
		agent:     agent,
		relays:    urls,
		cfg:       cfg,
		keys:      keys,
		transport: opts.Transport,
		payments:  payment.New(opts.Wallet, log),
		log:       log,
		now:       now,
	}, nil
}

// AgentPublicKey returns the agent's hex public key.
func (c *Conversation) AgentPublicKey() string { return c.agent }

// Relays returns a copy of the relay set.
func (c *Conversation) Relays() []string { return append([]string(nil), c.relays...) }

// Config returns the session configuration.
func (c *Conversation) Config() domain.ConversationConfig { return c.cfg }

// PublicKey resolves the local user's public key through the key strategy.
func (c *Conversation) PublicKey(ctx context.Context) (string, error) {
	return c.keys.PublicKey(ctx)
}

// SignEvent signs u with the local identity.
func (c *Conversation) SignEvent(ctx context.Context, u domain.UnsignedEvent) (nostr.Event, error) {
	return c.keys.Sign(ctx, u)
}

// DirectMessage encrypts text for the agent and returns the signed kind 4
// event without publishing it.
func (c *Conversation) DirectMessage(ctx context.Context, text string) (nostr.Event, error) {
	ct, err := c.keys.Encrypt(ctx, c.agent, text)
	if err != nil {
		return nostr.Event{}, fmt.Errorf("encrypt prompt: %w", err)
	}
	evt, err := c.keys.Sign(ctx, domain.UnsignedEvent{
		Kind:      domain.KindEncryptedDirectMessage,
		CreatedAt: nostr.Timestamp(c.now().Unix()),
		Tags:      nostr.Tags{{domain.TagRecipient, c.agent}},
		Content:   ct,
	})
	if err != nil {
		return nostr.Event{}, fmt.Errorf("sign prompt: %w", err)
	}
	return evt, nil
}

// SendPrompt sends text to the agent on every relay. The per-relay results
// are always returned; if any relay did not accept the event the error wraps
// domain.ErrPublishRejected.
func (c *Conversation) SendPrompt(ctx context.Context, text string) ([]domain.PublishResult, error) {
	evt, err := c.DirectMessage(ctx, text)
	if err != nil {
		return nil, err
	}

	results, err := c.transport.Publish(ctx, c.relays, evt)
	if err != nil {
		return results, fmt.Errorf("%w: %w", domain.ErrPublishRejected, err)
	}

	accepted := make(map[string]bool, len(results))
	var errs []error
	for _, r := range results {
		if r.OK() {
			accepted[r.Relay] = true
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Relay, r.Err))
	}
	for _, url := range c.relays {
		if !accepted[url] && !hasResult(results, url) {
			errs = append(errs, fmt.Errorf("%s: no acknowledgement", url))
		}
	}
	if len(errs) > 0 {
		return results, fmt.Errorf("%w by %d of %d relays: %w",
			domain.ErrPublishRejected, len(errs), len(c.relays), errors.Join(errs...))
	}

	c.log.Info().Str("event_id", evt.ID).Int("relays", len(results)).Msg("prompt sent")
	return results, nil
}

func hasResult(results []domain.PublishResult, url string) bool {
	for _, r := range results {
		if r.Relay == url {
			return true
		}
	}
	return false
}

// normalizeRelays canonicalises and de-duplicates urls, keeping order.
func normalizeRelays(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		n := nostr.NormalizeURL(u)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// short abbreviates a hex key for log fields.
func short(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12]
}
