package types

// Identity is a hex-encoded secp256k1 key pair. SecretKey is empty when the
// key is held by an ambient signer.
type Identity struct {
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key,omitempty"`
}

// HasSecret reports whether the secret half is held in process memory.
func (id Identity) HasSecret() bool { return id.SecretKey != "" }
