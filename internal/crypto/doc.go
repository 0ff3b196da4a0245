// Package crypto exposes the minimal primitives used by plebai.
//
// Contents
//
//   - secp256k1 key generation and hex/bech32 (NIP-19) parsing
//     (GenerateSecretKey, NewIdentity, ParsePublicKey, ParseSecretKey)
//   - NIP-04 shared-secret encryption of message content (Encrypt, Decrypt)
//   - Event hashing, Schnorr signing and verification (SignEvent, VerifyEvent)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Keys are carried as lowercase hex strings, as go-nostr does. Shared secrets
// derived for a single operation are wiped before the function returns.
// Decrypt never returns unauthenticated garbage: padding and UTF-8 are checked
// and any failure is reported as domain.ErrDecryptionFailed.
package crypto
