// Package commands defines the plebai CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init     Generate a key into the localstorage slot
//   - whoami   Print the local public key and its fingerprint
//   - send     Encrypt a prompt for the agent and publish it
//   - listen   Print replies, invoices and status notices from the agent
//
// # Implementation
//
// The root command loads settings (config file, PLEBAI_* environment, then
// flags) and builds the relay pool, secret store, remote signer and wallet
// before any subcommand runs.
package commands
