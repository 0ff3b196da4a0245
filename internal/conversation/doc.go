// Package conversation runs an encrypted prompt/response session with an
// agent over Nostr relays.
//
// A Conversation is built once per agent with a relay set and a
// domain.ConversationConfig. The config picks the key strategy (see package
// keysource) and the invoice policy:
//
//   - UseWebLn false: every invoice goes to Listeners.OnInvoice, which is
//     then mandatory.
//   - UseWebLn true: invoices are paid through the injected wallet; if that
//     fails the invoice is handed to Listeners.OnInvoice when set, otherwise
//     the event fails.
//
// Subscribe starts one consumer goroutine that reads the transport stream and
// calls the listeners synchronously per event. It listens to both directions
// of the conversation, so the user's own prompts are echoed to OnMessage;
// compare evt.PubKey with Subscription.UserPublicKey to tell them apart.
//
// Errors on a single event (decryption, payment without fallback) are logged
// and reported to Listeners.OnError; the subscription keeps running.
package conversation
