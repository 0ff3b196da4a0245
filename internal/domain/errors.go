package domain

import "errors"

var (
	// ErrConfiguration is returned for invalid session settings or a missing
	// mandatory listener.
	ErrConfiguration = errors.New("configuration error")

	// ErrCapabilityUnavailable indicates the environment lacks a delegate
	// operation (no signer, no cipher support, no wallet).
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrUnsupportedOperation wraps failures of an operation whose strategy
	// preconditions are not met.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrKeyNotFound is returned when the persisted key slot is empty.
	ErrKeyNotFound = errors.New("no private key in local store")

	// ErrDecryptionFailed is returned when ciphertext cannot be opened.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrPaymentFailed wraps any failure to pay an invoice.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrPublishRejected is returned when at least one relay refused an event.
	ErrPublishRejected = errors.New("publish rejected")
)
