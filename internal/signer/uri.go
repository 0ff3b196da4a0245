package signer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/crypto"
)

const scheme = "bunker"

// ErrInvalidURI reports a malformed bunker:// connection string.
var ErrInvalidURI = errors.New("signer: invalid bunker uri")

// URI is a parsed bunker://<remote-pubkey>?relay=...&secret=... string.
type URI struct {
	RemotePublicKey string
	Relays          []string
	Secret          string
}

// ParseURI validates a bunker connection string.
func ParseURI(raw string) (URI, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return URI{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	if u.Scheme != scheme {
		return URI{}, fmt.Errorf("%w: scheme must be %s://", ErrInvalidURI, scheme)
	}
	pk, err := crypto.ParsePublicKey(u.Host)
	if err != nil {
		return URI{}, fmt.Errorf("%w: remote signer key: %w", ErrInvalidURI, err)
	}

	q := u.Query()
	var relays []string
	for _, r := range q["relay"] {
		if n := nostr.NormalizeURL(r); n != "" {
			relays = append(relays, n)
		}
	}
	if len(relays) == 0 {
		return URI{}, fmt.Errorf("%w: at least one relay is required", ErrInvalidURI)
	}
	return URI{RemotePublicKey: pk, Relays: relays, Secret: q.Get("secret")}, nil
}
