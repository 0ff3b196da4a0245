// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (events, identities, config), the error taxonomy and
// the collaborator contracts (transport, signer, wallet, secret store) only.
package domain
