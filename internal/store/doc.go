// Package store provides persistence for plebai's local key material.
//
// It contains concrete implementations of domain.SecretStore:
//   - SecretFileStore keeps named slots in a JSON file under the configured
//     home directory. With a passphrase the file is sealed with
//     scrypt + ChaCha20-Poly1305; without one it is written as plain JSON
//     with 0600 permissions.
//   - MemoryStore keeps slots in process memory, for tests and one-shot runs.
//
// All methods are concurrency-safe via internal locking.
package store
