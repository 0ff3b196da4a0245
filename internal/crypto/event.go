package crypto

import (
	"errors"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/domain"
)

// ErrBadEvent is returned by VerifyEvent when the id or signature does not
// match the event fields.
var ErrBadEvent = errors.New("event id or signature mismatch")

// SignEvent builds the event from u, derives the pubkey from secretKey,
// computes the id over the canonical serialisation and signs it.
func SignEvent(secretKey string, u domain.UnsignedEvent) (nostr.Event, error) {
	if !isHex32(secretKey) {
		return nostr.Event{}, fmt.Errorf("%w: secret key must be 64 hex characters", ErrInvalidKey)
	}
	evt := u.Event()
	if err := evt.Sign(secretKey); err != nil {
		return nostr.Event{}, fmt.Errorf("sign event: %w", err)
	}
	return evt, nil
}

// VerifyEvent recomputes the id of evt and checks its signature.
func VerifyEvent(evt nostr.Event) error {
	if evt.ID == "" || evt.GetID() != evt.ID {
		return fmt.Errorf("%w: id", ErrBadEvent)
	}
	ok, err := evt.CheckSignature()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadEvent, err)
	}
	if !ok {
		return fmt.Errorf("%w: signature", ErrBadEvent)
	}
	return nil
}
