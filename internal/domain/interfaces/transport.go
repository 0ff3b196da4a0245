package interfaces

import (
	"context"

	"github.com/nbd-wtf/go-nostr"

	domaintypes "plebai/internal/domain/types"
)

// Transport publishes to and subscribes on a set of relays.
type Transport interface {
	// Subscribe streams every event matching any of filters from any relay.
	// The channel is closed once ctx is done or all relays have gone away.
	Subscribe(
		ctx context.Context,
		relays []string,
		filters []nostr.Filter,
	) (<-chan nostr.Event, error)

	// Publish sends evt to every relay and returns one result per relay.
	Publish(
		ctx context.Context,
		relays []string,
		evt nostr.Event,
	) ([]domaintypes.PublishResult, error)
}
