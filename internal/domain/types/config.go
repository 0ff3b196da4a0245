package types

// ConversationConfig fixes the key strategy and payment policy of a session.
// It is copied into the session at construction and never changes afterwards.
type ConversationConfig struct {
	SecretKeyMethod SecretKeyMethod
	UseWebLn        bool
	ProviderHost    string
}
