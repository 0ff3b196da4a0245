// Package keysource resolves the local identity's signing and encryption
// capability.
//
// A KeySource is one of a closed set of strategies:
//
//   - AmbientSigner delegates every operation to an external domain.Signer
//     (a NIP-46 remote signer in the CLI). No secret key is held in process.
//   - Ephemeral generates a key when constructed and keeps it for its
//     lifetime. Dropping the value drops the identity.
//   - PersistedLocal reads the key from a domain.SecretStore slot on every
//     operation and never caches it.
//
// The strategy is fixed at construction. An operation whose preconditions
// are unmet fails with a descriptive error wrapping one of the domain
// sentinels; there is no fallback to another strategy.
package keysource
