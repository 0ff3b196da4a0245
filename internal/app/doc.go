// Package app wires application dependencies for the CLI.
//
// It builds the relay pool, secret store, remote signer and wallet from the
// loaded settings, and opens conversations on top of them.
package app
