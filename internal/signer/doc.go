// Package signer provides the ambient signer used by the nip07 key strategy.
//
// Outside a browser there is no window.nostr, so the capability is served by
// a NIP-46 remote signer ("bunker"): the user's key never leaves the bunker,
// and signing and NIP-04 encryption are requested over relays.
package signer
