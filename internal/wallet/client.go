package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"

	"plebai/internal/domain"
)

const defaultTimeout = 30 * time.Second

var _ domain.Wallet = (*Client)(nil)

// Client is a NIP-47 wallet client. Requests go out over a SimplePool shared
// with the rest of the session.
type Client struct {
	uri     URI
	pool    *nostr.SimplePool
	log     zerolog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds how long SendPayment waits for the wallet's reply.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New parses rawURI and returns a client. No connection is made until Enable.
func New(pool *nostr.SimplePool, rawURI string, log zerolog.Logger, opts ...Option) (*Client, error) {
	uri, err := ParseURI(rawURI)
	if err != nil {
		return nil, err
	}
	c := &Client{
		uri:     uri,
		pool:    pool,
		log:     log.With().Str("component", "wallet").Str("relay", uri.Relay).Logger(),
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Enable connects to the wallet relay.
func (c *Client) Enable(ctx context.Context) error {
	if _, err := c.relay(ctx); err != nil {
		return err
	}
	return nil
}

func (c *Client) relay(ctx context.Context) (*nostr.Relay, error) {
	if c.pool == nil {
		return nil, fmt.Errorf("%w: wallet has no relay pool", domain.ErrCapabilityUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := c.pool.EnsureRelay(c.uri.Relay)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet relay %s: %w", domain.ErrCapabilityUnavailable, c.uri.Relay, err)
	}
	return r, nil
}

// SendPayment sends pay_invoice and waits for the wallet's reply.
func (c *Client) SendPayment(ctx context.Context, invoice string) (domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := c.log.With().Str("request_id", uuid.NewString()).Logger()

	r, err := c.relay(ctx)
	if err != nil {
		return domain.Payment{}, err
	}
	req, err := encodeRequest(c.uri, methodPayInvoice, payInvoiceParams{Invoice: invoice}, nostr.Now())
	if err != nil {
		return domain.Payment{}, fmt.Errorf("build pay_invoice: %w", err)
	}

	// Replies are ephemeral events, so the subscription must exist before
	// the request is published.
	sub, err := r.Subscribe(ctx, nostr.Filters{{
		Kinds:   []int{KindResponse},
		Authors: []string{c.uri.WalletPublicKey},
		Tags:    nostr.TagMap{"e": []string{req.ID}},
	}})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("subscribe to wallet replies: %w", err)
	}
	defer sub.Unsub()

	if err := r.Publish(ctx, req); err != nil {
		return domain.Payment{}, fmt.Errorf("publish pay_invoice: %w", err)
	}
	log.Debug().Str("event_id", req.ID).Msg("pay_invoice sent")

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return domain.Payment{}, fmt.Errorf("wallet did not answer within %s", c.timeout)
			}
			return domain.Payment{}, ctx.Err()
		case evt, ok := <-sub.Events:
			if !ok {
				return domain.Payment{}, errors.New("wallet subscription closed")
			}
			resp, err := decodeResponse(c.uri, req.ID, *evt)
			if err != nil {
				log.Warn().Err(err).Str("event_id", evt.ID).Msg("discarding wallet reply")
				continue
			}
			p, err := resp.payment()
			if err != nil {
				return domain.Payment{}, err
			}
			log.Info().Msg("wallet paid invoice")
			return p, nil
		}
	}
}
