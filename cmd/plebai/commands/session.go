package commands

import (
	"fmt"
	"io"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/conversation"
	"plebai/internal/domain"
)

// openConversation validates the settings a session needs and opens it.
func openConversation() (*conversation.Conversation, error) {
	if err := appCtx.Settings.Validate(); err != nil {
		return nil, err
	}
	return appCtx.Conversation()
}

// printListeners writes the conversation to out and status to errOut.
// Replies from agent are also sent on replies when it is non-nil.
func printListeners(agent string, out, errOut io.Writer, replies chan<- string) conversation.Listeners {
	return conversation.Listeners{
		OnMessage: func(evt nostr.Event, plaintext string) {
			if evt.PubKey != agent {
				// Our own prompt, echoed back by the relays.
				if replies == nil {
					fmt.Fprintf(out, "> %s\n", plaintext)
				}
				return
			}
			fmt.Fprintf(out, "%s\n", plaintext)
			if replies != nil {
				select {
				case replies <- plaintext:
				default:
				}
			}
		},
		OnInvoice: func(invoice string) {
			fmt.Fprintf(errOut, "Pay this invoice to continue:\n%s\n", invoice)
		},
		OnProcessing: func() {
			fmt.Fprintln(errOut, "Agent is processing...")
		},
		OnPaid: func(invoice string, p domain.Payment) {
			fmt.Fprintf(errOut, "Invoice paid (preimage %s)\n", p.Preimage)
		},
		OnError: func(evt nostr.Event, err error) {
			fmt.Fprintf(errOut, "event %s: %v\n", evt.ID, err)
		},
	}
}
