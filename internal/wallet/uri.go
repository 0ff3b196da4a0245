package wallet

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/crypto"
)

// ErrInvalidURI reports a malformed connection string.
var ErrInvalidURI = errors.New("wallet: invalid nwc uri")

var schemes = map[string]bool{
	"nostr+walletconnect": true,
	"nostrwalletconnect":  true,
}

// URI is a parsed nostr+walletconnect://<wallet-pubkey>?relay=...&secret=...
type URI struct {
	WalletPublicKey string
	Relay           string
	Secret          string
	LUD16           string
}

// ParseURI validates a wallet connection string.
func ParseURI(raw string) (URI, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return URI{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	if !schemes[u.Scheme] {
		return URI{}, fmt.Errorf("%w: scheme must be nostr+walletconnect://", ErrInvalidURI)
	}
	wallet, err := crypto.ParsePublicKey(u.Host)
	if err != nil {
		return URI{}, fmt.Errorf("%w: wallet key: %w", ErrInvalidURI, err)
	}

	q := u.Query()
	relay := nostr.NormalizeURL(q.Get("relay"))
	if !strings.HasPrefix(relay, "ws://") && !strings.HasPrefix(relay, "wss://") {
		return URI{}, fmt.Errorf("%w: relay must be a websocket url", ErrInvalidURI)
	}
	secret, err := crypto.ParseSecretKey(q.Get("secret"))
	if err != nil {
		return URI{}, fmt.Errorf("%w: secret: %w", ErrInvalidURI, err)
	}
	return URI{WalletPublicKey: wallet, Relay: relay, Secret: secret, LUD16: q.Get("lud16")}, nil
}
