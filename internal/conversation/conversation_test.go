package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plebai/internal/crypto"
	"plebai/internal/domain"
	"plebai/internal/store"
)

const (
	relayOne = "wss://r1.example.com"
	relayTwo = "wss://r2.example.com"
	wait     = 2 * time.Second
)

// fakeTransport records calls and lets tests push inbound events.
type fakeTransport struct {
	mu             sync.Mutex
	subscribeCalls int
	subRelays      []string
	filters        []nostr.Filter
	events         chan nostr.Event
	published      []nostr.Event
	publishedTo    [][]string
	reject         map[string]error
	publishErr     error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(chan nostr.Event, 16), reject: map[string]error{}}
}

func (f *fakeTransport) Subscribe(_ context.Context, relays []string, filters []nostr.Filter) (<-chan nostr.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribeCalls++
	f.subRelays = relays
	f.filters = filters
	return f.events, nil
}

func (f *fakeTransport) Publish(_ context.Context, relays []string, evt nostr.Event) ([]domain.PublishResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	f.published = append(f.published, evt)
	f.publishedTo = append(f.publishedTo, relays)
	out := make([]domain.PublishResult, 0, len(relays))
	for _, r := range relays {
		out = append(out, domain.PublishResult{Relay: r, Err: f.reject[r]})
	}
	return out, nil
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribeCalls
}

type fakeWallet struct {
	err  error
	paid []string
}

func (w *fakeWallet) Enable(context.Context) error { return nil }

func (w *fakeWallet) SendPayment(_ context.Context, invoice string) (domain.Payment, error) {
	if w.err != nil {
		return domain.Payment{}, w.err
	}
	w.paid = append(w.paid, invoice)
	return domain.Payment{Preimage: "beef"}, nil
}

// cipherSigner is an ambient signer backed by an in-memory key.
type cipherSigner struct{ id domain.Identity }

func (s *cipherSigner) GetPublicKey(context.Context) (string, error) { return s.id.PublicKey, nil }
func (s *cipherSigner) SignEvent(_ context.Context, evt *nostr.Event) error {
	return evt.Sign(s.id.SecretKey)
}
func (s *cipherSigner) Encrypt(_ context.Context, peer, plaintext string) (string, error) {
	return crypto.Encrypt(s.id.SecretKey, peer, plaintext)
}
func (s *cipherSigner) Decrypt(_ context.Context, peer, ciphertext string) (string, error) {
	return crypto.Decrypt(s.id.SecretKey, peer, ciphertext)
}

func newIdentity(t *testing.T) domain.Identity {
	t.Helper()
	id, err := crypto.NewIdentity()
	require.NoError(t, err)
	return id
}

func newConversation(t *testing.T, agent domain.Identity, cfg domain.ConversationConfig, opts Options) (*Conversation, *fakeTransport) {
	t.Helper()
	tr := newFakeTransport()
	if opts.Transport == nil {
		opts.Transport = tr
	}
	c, err := New(agent.PublicKey, []string{relayOne, relayTwo}, cfg, opts)
	require.NoError(t, err)
	return c, tr
}

// agentMessage builds a kind 4 event from the agent to user.
func agentMessage(t *testing.T, agent domain.Identity, user, text string, extra ...nostr.Tag) nostr.Event {
	t.Helper()
	ct, err := crypto.Encrypt(agent.SecretKey, user, text)
	require.NoError(t, err)
	tags := append(nostr.Tags{{"p", user}}, extra...)
	evt, err := crypto.SignEvent(agent.SecretKey, domain.UnsignedEvent{
		Kind:      domain.KindEncryptedDirectMessage,
		CreatedAt: nostr.Now(),
		Tags:      tags,
		Content:   ct,
	})
	require.NoError(t, err)
	return evt
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(wait):
		t.Fatal("timed out waiting for listener")
	}
	var zero T
	return zero
}

func TestNew_Validation(t *testing.T) {
	agent := newIdentity(t)
	tr := newFakeTransport()

	_, err := New("not-a-key", []string{relayOne}, domain.ConversationConfig{}, Options{Transport: tr})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = New(agent.PublicKey, nil, domain.ConversationConfig{}, Options{Transport: tr})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = New(agent.PublicKey, []string{relayOne}, domain.ConversationConfig{}, Options{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = New(agent.PublicKey, []string{relayOne}, domain.ConversationConfig{SecretKeyMethod: "hsm"}, Options{Transport: tr})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNew_AcceptsNpubAndDedupesRelays(t *testing.T) {
	agent := newIdentity(t)
	npub, err := crypto.EncodePublicKey(agent.PublicKey)
	require.NoError(t, err)

	c, err := New(npub, []string{relayOne, relayOne + "/", relayTwo}, domain.ConversationConfig{}, Options{Transport: newFakeTransport()})
	require.NoError(t, err)
	assert.Equal(t, agent.PublicKey, c.AgentPublicKey())
	assert.Equal(t, []string{relayOne, relayTwo}, c.Relays())
	assert.Equal(t, domain.MethodEphemeral, c.Config().SecretKeyMethod)
}

func TestNew_EphemeralKeysDiffer(t *testing.T) {
	agent := newIdentity(t)
	a, _ := newConversation(t, agent, domain.ConversationConfig{SecretKeyMethod: domain.MethodEphemeral}, Options{})
	b, _ := newConversation(t, agent, domain.ConversationConfig{SecretKeyMethod: domain.MethodEphemeral}, Options{})

	pa, err := a.PublicKey(context.Background())
	require.NoError(t, err)
	pb, err := b.PublicKey(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, pa, pb)
}

func TestSubscribe_RequiresInvoiceListenerWithoutWebLn(t *testing.T) {
	c, tr := newConversation(t, newIdentity(t), domain.ConversationConfig{SecretKeyMethod: domain.MethodEphemeral}, Options{})

	_, err := c.Subscribe(context.Background(), Listeners{OnMessage: func(nostr.Event, string) {}})
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, tr.calls(), "transport must not be touched")

	_, err = c.Subscribe(context.Background(), Listeners{OnInvoice: func(string) {}})
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, tr.calls())
}

func TestSubscribe_Filters(t *testing.T) {
	agent := newIdentity(t)
	c, tr := newConversation(t, agent, domain.ConversationConfig{UseWebLn: true}, Options{})

	sub, err := c.Subscribe(context.Background(), Listeners{OnMessage: func(nostr.Event, string) {}})
	require.NoError(t, err)
	defer sub.Close()

	user := sub.UserPublicKey()
	kinds := []int{4, 7000}
	assert.Equal(t, []string{relayOne, relayTwo}, tr.subRelays)
	require.Len(t, tr.filters, 2)
	assert.Equal(t, kinds, tr.filters[0].Kinds)
	assert.Equal(t, []string{user}, tr.filters[0].Authors)
	assert.Equal(t, []string{agent.PublicKey}, tr.filters[0].Tags["p"])
	assert.Equal(t, kinds, tr.filters[1].Kinds)
	assert.Equal(t, []string{agent.PublicKey}, tr.filters[1].Authors)
	assert.Equal(t, []string{user}, tr.filters[1].Tags["p"])
}

func TestSubscribe_DeliversDecryptedMessage(t *testing.T) {
	agent := newIdentity(t)
	c, tr := newConversation(t, agent, domain.ConversationConfig{}, Options{})

	type msg struct {
		evt nostr.Event
		pt  string
	}
	got := make(chan msg, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(evt nostr.Event, pt string) { got <- msg{evt, pt} },
		OnInvoice: func(string) {},
	})
	require.NoError(t, err)
	defer sub.Close()

	evt := agentMessage(t, agent, sub.UserPublicKey(), "here is your image")
	tr.events <- evt

	m := receive(t, got)
	assert.Equal(t, "here is your image", m.pt)
	assert.Equal(t, evt.ID, m.evt.ID)
}

func TestSubscribe_ProcessingNotice(t *testing.T) {
	agent := newIdentity(t)
	c, tr := newConversation(t, agent, domain.ConversationConfig{}, Options{})

	processing := make(chan struct{}, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage:    func(nostr.Event, string) { t.Error("unexpected message") },
		OnInvoice:    func(string) {},
		OnProcessing: func() { processing <- struct{}{} },
	})
	require.NoError(t, err)
	defer sub.Close()

	tr.events <- nostr.Event{Kind: domain.KindJobFeedback, Tags: nostr.Tags{{"status", "processing"}}}
	receive(t, processing)
}

func TestSubscribe_InvoiceWithoutWebLn(t *testing.T) {
	agent := newIdentity(t)
	w := &fakeWallet{}
	c, tr := newConversation(t, agent, domain.ConversationConfig{}, Options{Wallet: w})

	invoices := make(chan string, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(nostr.Event, string) {},
		OnInvoice: func(inv string) { invoices <- inv },
	})
	require.NoError(t, err)
	defer sub.Close()

	tr.events <- agentMessage(t, agent, sub.UserPublicKey(), "pay me", nostr.Tag{"invoice", "lnbc500n1abc"})
	assert.Equal(t, "lnbc500n1abc", receive(t, invoices))
	assert.Empty(t, w.paid, "wallet must be bypassed when webln is off")
}

func TestSubscribe_InvoicePaidWithWebLn(t *testing.T) {
	agent := newIdentity(t)
	w := &fakeWallet{}
	c, tr := newConversation(t, agent, domain.ConversationConfig{UseWebLn: true}, Options{Wallet: w})

	paid := make(chan string, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(nostr.Event, string) {},
		OnInvoice: func(string) { t.Error("invoice listener must not be called after payment") },
		OnPaid:    func(inv string, p domain.Payment) { paid <- inv + ":" + p.Preimage },
	})
	require.NoError(t, err)
	defer sub.Close()

	tr.events <- nostr.Event{Kind: domain.KindJobFeedback, Tags: nostr.Tags{{"invoice", "lnbc1ok"}}}
	assert.Equal(t, "lnbc1ok:beef", receive(t, paid))
}

func TestSubscribe_WebLnFailureFallsBack(t *testing.T) {
	agent := newIdentity(t)
	w := &fakeWallet{err: errors.New("webln unavailable")}
	c, tr := newConversation(t, agent, domain.ConversationConfig{UseWebLn: true}, Options{Wallet: w})

	invoices := make(chan string, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(nostr.Event, string) {},
		OnInvoice: func(inv string) { invoices <- inv },
		OnError:   func(_ nostr.Event, err error) { t.Errorf("unexpected error: %v", err) },
	})
	require.NoError(t, err)
	defer sub.Close()

	tr.events <- nostr.Event{Kind: domain.KindEncryptedDirectMessage, Tags: nostr.Tags{{"invoice", "lnbc500n1..."}}}
	assert.Equal(t, "lnbc500n1...", receive(t, invoices))
}

func TestSubscribe_WebLnFailureWithoutFallbackIsIsolated(t *testing.T) {
	agent := newIdentity(t)
	c, tr := newConversation(t, agent, domain.ConversationConfig{UseWebLn: true}, Options{})

	errs := make(chan error, 1)
	messages := make(chan string, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(_ nostr.Event, pt string) { messages <- pt },
		OnError:   func(_ nostr.Event, err error) { errs <- err },
	})
	require.NoError(t, err)
	defer sub.Close()

	tr.events <- nostr.Event{Kind: domain.KindEncryptedDirectMessage, Tags: nostr.Tags{{"invoice", "lnbc1"}}}
	err = receive(t, errs)
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)

	tr.events <- agentMessage(t, agent, sub.UserPublicKey(), "still here")
	assert.Equal(t, "still here", receive(t, messages))
}

func TestSubscribe_DecryptionFailureIsReported(t *testing.T) {
	agent := newIdentity(t)
	stranger := newIdentity(t)
	c, tr := newConversation(t, agent, domain.ConversationConfig{}, Options{})

	errs := make(chan error, 1)
	messages := make(chan string, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(_ nostr.Event, pt string) { messages <- pt },
		OnInvoice: func(string) {},
		OnError:   func(_ nostr.Event, err error) { errs <- err },
	})
	require.NoError(t, err)
	defer sub.Close()

	// Sealed by someone other than the agent: the shared secret differs.
	tr.events <- agentMessage(t, stranger, sub.UserPublicKey(), "the quick brown fox jumps over the lazy dog")
	assert.ErrorIs(t, receive(t, errs), domain.ErrDecryptionFailed)

	tr.events <- agentMessage(t, agent, sub.UserPublicKey(), "ok")
	assert.Equal(t, "ok", receive(t, messages))
}

func TestSubscribe_CloseStopsConsumer(t *testing.T) {
	c, _ := newConversation(t, newIdentity(t), domain.ConversationConfig{UseWebLn: true}, Options{})
	sub, err := c.Subscribe(context.Background(), Listeners{OnMessage: func(nostr.Event, string) {}})
	require.NoError(t, err)

	sub.Close()
	select {
	case <-sub.Done():
	case <-time.After(wait):
		t.Fatal("consumer did not exit after Close")
	}
}

func TestSubscribe_StreamEndClosesSubscription(t *testing.T) {
	c, tr := newConversation(t, newIdentity(t), domain.ConversationConfig{UseWebLn: true}, Options{})
	sub, err := c.Subscribe(context.Background(), Listeners{OnMessage: func(nostr.Event, string) {}})
	require.NoError(t, err)

	close(tr.events)
	select {
	case <-sub.Done():
	case <-time.After(wait):
		t.Fatal("consumer did not exit after the stream closed")
	}
}

func TestSendPrompt_PublishesToEveryRelay(t *testing.T) {
	agent := newIdentity(t)
	now := time.Unix(1700000000, 0)
	c, tr := newConversation(t, agent, domain.ConversationConfig{}, Options{Now: func() time.Time { return now }})

	results, err := c.SendPrompt(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.OK())
	}

	require.Len(t, tr.published, 1)
	assert.Equal(t, []string{relayOne, relayTwo}, tr.publishedTo[0])

	evt := tr.published[0]
	assert.Equal(t, domain.KindEncryptedDirectMessage, evt.Kind)
	assert.Equal(t, nostr.Tags{{"p", agent.PublicKey}}, evt.Tags)
	assert.Equal(t, nostr.Timestamp(now.Unix()), evt.CreatedAt)
	require.NoError(t, crypto.VerifyEvent(evt))

	user, err := c.PublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, user, evt.PubKey)

	pt, err := crypto.Decrypt(agent.SecretKey, user, evt.Content)
	require.NoError(t, err)
	assert.Equal(t, "hello", pt)
}

func TestSendPrompt_Rejected(t *testing.T) {
	agent := newIdentity(t)
	c, tr := newConversation(t, agent, domain.ConversationConfig{}, Options{})
	tr.reject[relayTwo] = errors.New("blocked: rate limited")

	results, err := c.SendPrompt(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrPublishRejected)
	assert.Contains(t, err.Error(), relayTwo)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
}

func TestSendPrompt_TransportError(t *testing.T) {
	c, tr := newConversation(t, newIdentity(t), domain.ConversationConfig{}, Options{})
	tr.publishErr = errors.New("pool closed")

	_, err := c.SendPrompt(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrPublishRejected)
}

func TestPersistedLocal_EmptyStore(t *testing.T) {
	c, tr := newConversation(t, newIdentity(t),
		domain.ConversationConfig{SecretKeyMethod: domain.MethodPersistedLocal, UseWebLn: true},
		Options{Store: store.NewMemoryStore()})

	_, err := c.SendPrompt(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	_, err = c.SignEvent(context.Background(), domain.UnsignedEvent{Kind: 1})
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	_, err = c.Subscribe(context.Background(), Listeners{OnMessage: func(nostr.Event, string) {}})
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.Zero(t, tr.calls())
}

func TestPersistedLocal_RoundTrip(t *testing.T) {
	agent := newIdentity(t)
	me := newIdentity(t)
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveSecret("pleb_sk", me.SecretKey))

	c, tr := newConversation(t, agent,
		domain.ConversationConfig{SecretKeyMethod: domain.MethodPersistedLocal},
		Options{Store: st})

	_, err := c.SendPrompt(context.Background(), "draw a cat")
	require.NoError(t, err)
	assert.Equal(t, me.PublicKey, tr.published[0].PubKey)
}

func TestAmbientSigner_RoundTrip(t *testing.T) {
	agent := newIdentity(t)
	me := newIdentity(t)
	c, tr := newConversation(t, agent,
		domain.ConversationConfig{SecretKeyMethod: domain.MethodAmbientSigner},
		Options{Signer: &cipherSigner{id: me}})

	got := make(chan string, 1)
	sub, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(_ nostr.Event, pt string) { got <- pt },
		OnInvoice: func(string) {},
	})
	require.NoError(t, err)
	defer sub.Close()
	assert.Equal(t, me.PublicKey, sub.UserPublicKey())

	_, err = c.SendPrompt(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, me.PublicKey, tr.published[0].PubKey)

	tr.events <- agentMessage(t, agent, me.PublicKey, "hi back")
	assert.Equal(t, "hi back", receive(t, got))
}

func TestAmbientSigner_Missing(t *testing.T) {
	c, tr := newConversation(t, newIdentity(t),
		domain.ConversationConfig{SecretKeyMethod: domain.MethodAmbientSigner},
		Options{})

	_, err := c.Subscribe(context.Background(), Listeners{
		OnMessage: func(nostr.Event, string) {},
		OnInvoice: func(string) {},
	})
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)
	assert.Zero(t, tr.calls())
}
