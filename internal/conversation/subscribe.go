package conversation

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/classify"
	"plebai/internal/domain"
)

// Listeners receives conversation events. OnMessage is required; OnInvoice
// is required when the session does not pay invoices itself.
type Listeners struct {
	OnMessage    func(evt nostr.Event, plaintext string)
	OnInvoice    func(invoice string)
	OnProcessing func()
	// OnPaid is called after the wallet paid an invoice.
	OnPaid func(invoice string, p domain.Payment)
	// OnError is called when handling one event failed.
	OnError func(evt nostr.Event, err error)
}

// Subscription is an active inbound stream.
type Subscription struct {
	user   string
	cancel context.CancelFunc
	done   chan struct{}
}

// UserPublicKey is the local public key the subscription filters on.
func (s *Subscription) UserPublicKey() string { return s.user }

// Close stops the subscription. It does not wait; use Done for that.
func (s *Subscription) Close() { s.cancel() }

// Done is closed once the consumer goroutine has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Subscribe validates l, resolves the user's key and starts consuming both
// directions of the conversation. The subscription lives until ctx is done
// or Close is called. Validation errors are returned before the transport is
// touched.
func (c *Conversation) Subscribe(ctx context.Context, l Listeners) (*Subscription, error) {
	if l.OnMessage == nil {
		return nil, fmt.Errorf("%w: a message listener is required", domain.ErrConfiguration)
	}
	if !c.cfg.UseWebLn && l.OnInvoice == nil {
		return nil, fmt.Errorf("%w: an invoice listener is required when webln is off", domain.ErrConfiguration)
	}

	user, err := c.keys.PublicKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve user public key: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	events, err := c.transport.Subscribe(subCtx, c.relays, c.Filters(user))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := &Subscription{user: user, cancel: cancel, done: make(chan struct{})}
	go c.consume(subCtx, events, l, sub)
	c.log.Info().Str("user", short(user)).Int("relays", len(c.relays)).Msg("subscribed")
	return sub, nil
}

// Filters returns the filter pair for a conversation between user and the
// agent: user→agent and agent→user, on the message and feedback kinds.
func (c *Conversation) Filters(user string) []nostr.Filter {
	return []nostr.Filter{
		{
			Kinds:   []int{domain.KindEncryptedDirectMessage, domain.KindJobFeedback},
			Authors: []string{user},
			Tags:    nostr.TagMap{domain.TagRecipient: []string{c.agent}},
		},
		{
			Kinds:   []int{domain.KindEncryptedDirectMessage, domain.KindJobFeedback},
			Authors: []string{c.agent},
			Tags:    nostr.TagMap{domain.TagRecipient: []string{user}},
		},
	}
}

func (c *Conversation) consume(ctx context.Context, events <-chan nostr.Event, l Listeners, sub *Subscription) {
	defer close(sub.done)
	defer sub.cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				c.log.Debug().Msg("event stream closed")
				return
			}
			if err := c.handle(ctx, evt, l); err != nil {
				c.log.Error().Err(err).Str("event_id", evt.ID).Int("kind", evt.Kind).Msg("event handling failed")
				if l.OnError != nil {
					l.OnError(evt, err)
				}
			}
		}
	}
}

// handle dispatches one event to the matching listener.
func (c *Conversation) handle(ctx context.Context, evt nostr.Event, l Listeners) error {
	cl := classify.Classify(evt)
	switch cl.Kind {
	case classify.Processing:
		if l.OnProcessing != nil {
			l.OnProcessing()
		}
		return nil
	case classify.Invoice:
		return c.handleInvoice(ctx, cl.Invoice, l)
	case classify.Message:
		pt, err := c.keys.Decrypt(ctx, c.agent, cl.Content)
		if err != nil {
			return fmt.Errorf("decrypt event %s: %w", evt.ID, err)
		}
		l.OnMessage(evt, pt)
		return nil
	}
	c.log.Debug().Str("event_id", evt.ID).Int("kind", evt.Kind).Msg("ignoring event")
	return nil
}

func (c *Conversation) handleInvoice(ctx context.Context, invoice string, l Listeners) error {
	if !c.cfg.UseWebLn {
		l.OnInvoice(invoice)
		return nil
	}

	p, err := c.payments.Pay(ctx, invoice)
	if err == nil {
		if l.OnPaid != nil {
			l.OnPaid(invoice, p)
		}
		return nil
	}
	if l.OnInvoice == nil {
		return fmt.Errorf("no invoice listener to fall back to: %w", err)
	}
	c.log.Warn().Err(err).Msg("wallet payment failed, handing invoice to listener")
	l.OnInvoice(invoice)
	return nil
}
