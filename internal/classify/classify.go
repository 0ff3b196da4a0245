// Package classify decides what an inbound conversation event carries.
package classify

import (
	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/domain"
)

// Kind is the outcome of classifying an event.
type Kind int

const (
	// Ignored events are not part of the conversation protocol.
	Ignored Kind = iota
	// Message events hold encrypted content for the listener.
	Message
	// Invoice events embed a lightning payment request.
	Invoice
	// Processing events signal the agent is working on the prompt.
	Processing
)

func (k Kind) String() string {
	switch k {
	case Message:
		return "message"
	case Invoice:
		return "invoice"
	case Processing:
		return "processing"
	}
	return "ignored"
}

// Classification is the result of Classify.
type Classification struct {
	Kind Kind
	// Invoice is set for Invoice.
	Invoice string
	// Content is the raw, still encrypted content for Message.
	Content string
}

// Classify inspects evt.
//
// An invoice tag wins over everything else, since agents deliver invoices on
// the message kind as well as the feedback kind. Then the feedback kind is a
// processing notice, and the direct-message kind is a message.
func Classify(evt nostr.Event) Classification {
	if inv := TagValue(evt.Tags, domain.TagInvoice, 1); inv != "" {
		return Classification{Kind: Invoice, Invoice: inv}
	}
	switch evt.Kind {
	case domain.KindJobFeedback:
		return Classification{Kind: Processing}
	case domain.KindEncryptedDirectMessage:
		return Classification{Kind: Message, Content: evt.Content}
	}
	return Classification{Kind: Ignored}
}

// TagValue returns element idx of the first tag named name, or "" when the
// tag is absent or too short.
func TagValue(tags nostr.Tags, name string, idx int) string {
	for _, t := range tags {
		if len(t) == 0 || t[0] != name {
			continue
		}
		if idx < len(t) {
			return t[idx]
		}
		return ""
	}
	return ""
}
