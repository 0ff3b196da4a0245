package domain

import (
	interfaces "plebai/internal/domain/interfaces"
	types "plebai/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint        = types.Fingerprint
	SecretKeyMethod    = types.SecretKeyMethod
	Identity           = types.Identity
	ConversationConfig = types.ConversationConfig
	UnsignedEvent      = types.UnsignedEvent
	PublishResult      = types.PublishResult
	Payment            = types.Payment
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport   = interfaces.Transport
	Signer      = interfaces.Signer
	Cipher      = interfaces.Cipher
	Wallet      = interfaces.Wallet
	SecretStore = interfaces.SecretStore
)

const (
	MethodAmbientSigner  = types.MethodAmbientSigner
	MethodEphemeral      = types.MethodEphemeral
	MethodPersistedLocal = types.MethodPersistedLocal

	KindEncryptedDirectMessage = types.KindEncryptedDirectMessage
	KindJobFeedback            = types.KindJobFeedback
	TagRecipient               = types.TagRecipient
	TagInvoice                 = types.TagInvoice
)

// ParseSecretKeyMethod is re-exported from the types subpackage.
var ParseSecretKeyMethod = types.ParseSecretKeyMethod
