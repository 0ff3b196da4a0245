package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"

	"plebai/internal/domain"
)

const (
	defaultPublishTimeout = 10 * time.Second
	seenCapacity          = 4096
)

var (
	errNoRelays  = errors.New("relay: no relays given")
	errNoFilters = errors.New("relay: no filters given")
)

// Pool is a domain.Transport over a go-nostr SimplePool.
type Pool struct {
	pool           *nostr.SimplePool
	log            zerolog.Logger
	publishTimeout time.Duration
}

// Option configures a Pool.
type Option func(*Pool)

// WithPublishTimeout bounds how long Publish waits for relay acknowledgements.
func WithPublishTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// NewPool builds a pool whose relay connections live until ctx is done.
func NewPool(ctx context.Context, log zerolog.Logger, opts ...Option) *Pool {
	p := &Pool{
		pool:           nostr.NewSimplePool(ctx),
		log:            log.With().Str("component", "relay").Logger(),
		publishTimeout: defaultPublishTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SimplePool exposes the underlying pool so other relay clients (remote
// signer, wallet) can share connections.
func (p *Pool) SimplePool() *nostr.SimplePool { return p.pool }

// Subscribe opens one subscription per filter on every relay and merges them.
func (p *Pool) Subscribe(ctx context.Context, relays []string, filters []nostr.Filter) (<-chan nostr.Event, error) {
	if len(relays) == 0 {
		return nil, errNoRelays
	}
	if len(filters) == 0 {
		return nil, errNoFilters
	}

	out := make(chan nostr.Event)
	seen := newSeenSet(seenCapacity)
	var wg sync.WaitGroup

	for _, f := range filters {
		in := p.pool.SubscribeMany(ctx, relays, f)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for re := range in {
				if re.Event == nil || seen.checkAndMark(re.ID) {
					continue
				}
				if re.Relay != nil {
					p.log.Debug().Str("relay", re.Relay.URL).Str("event_id", re.ID).Int("kind", re.Kind).Msg("event received")
				}
				select {
				case out <- *re.Event:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}

// Publish sends evt to every relay and returns one result per relay. A relay
// that produced no answer before the timeout is reported with the context
// error.
func (p *Pool) Publish(ctx context.Context, relays []string, evt nostr.Event) ([]domain.PublishResult, error) {
	if len(relays) == 0 {
		return nil, errNoRelays
	}
	ctx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	answered := make(map[string]domain.PublishResult, len(relays))
	for res := range p.pool.PublishMany(ctx, relays, evt) {
		url := res.RelayURL
		if url == "" && res.Relay != nil {
			url = res.Relay.URL
		}
		answered[nostr.NormalizeURL(url)] = domain.PublishResult{Relay: url, Err: res.Error}
	}

	results := make([]domain.PublishResult, 0, len(relays))
	for _, r := range relays {
		res, ok := answered[nostr.NormalizeURL(r)]
		if !ok {
			err := ctx.Err()
			if err == nil {
				err = errors.New("no acknowledgement")
			}
			res = domain.PublishResult{Relay: r, Err: err}
		}
		res.Relay = r
		if res.Err != nil {
			p.log.Warn().Str("relay", r).Str("event_id", evt.ID).Err(res.Err).Msg("publish rejected")
		} else {
			p.log.Debug().Str("relay", r).Str("event_id", evt.ID).Msg("published")
		}
		results = append(results, res)
	}
	return results, nil
}

// Compile-time assertion that Pool implements domain.Transport.
var _ domain.Transport = (*Pool)(nil)
