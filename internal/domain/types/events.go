package types

import (
	"github.com/nbd-wtf/go-nostr"
)

const (
	// KindEncryptedDirectMessage is the NIP-04 direct message kind.
	KindEncryptedDirectMessage = 4
	// KindJobFeedback is the processing-status kind emitted by agents.
	KindJobFeedback = 7000

	// TagRecipient marks the addressee of an event.
	TagRecipient = "p"
	// TagInvoice carries a lightning payment request.
	TagInvoice = "invoice"
)

// UnsignedEvent is the template for an outbound event before it is keyed.
type UnsignedEvent struct {
	Kind      int             `json:"kind"`
	CreatedAt nostr.Timestamp `json:"created_at"`
	Tags      nostr.Tags      `json:"tags"`
	Content   string          `json:"content"`
}

// Event returns a go-nostr event carrying the template fields with no
// pubkey, id or signature set.
func (u UnsignedEvent) Event() nostr.Event {
	tags := make(nostr.Tags, 0, len(u.Tags))
	for _, t := range u.Tags {
		tags = append(tags, append(nostr.Tag(nil), t...))
	}
	return nostr.Event{
		Kind:      u.Kind,
		CreatedAt: u.CreatedAt,
		Tags:      tags,
		Content:   u.Content,
	}
}

// PublishResult is one relay's answer to a publish.
type PublishResult struct {
	Relay string
	Err   error
}

// OK reports whether the relay accepted the event.
func (r PublishResult) OK() bool { return r.Err == nil }

// Payment is the proof returned by a wallet after paying an invoice.
type Payment struct {
	Preimage string `json:"preimage"`
}
