// Package relay provides the go-nostr implementation of the domain.Transport
// interface used by plebai.
//
// Relays are store-and-forward nodes for signed events. Pool wraps a
// nostr.SimplePool and offers:
//   - Subscribing to several filters across a relay set as one merged
//     stream, with duplicates (the same event id from several relays or
//     filters) dropped.
//   - Publishing an event to every relay and collecting one acknowledgement
//     per relay.
//
// All operations accept a context for cancellation and deadlines. Relay
// reconnection and retry are left to go-nostr.
package relay
