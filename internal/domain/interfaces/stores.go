package interfaces

// SecretStore persists raw secrets in named slots.
type SecretStore interface {
	// LoadSecret returns the slot value; ok is false when the slot is empty.
	LoadSecret(slot string) (value string, ok bool, err error)
	SaveSecret(slot, value string) error
	DeleteSecret(slot string) error
}
