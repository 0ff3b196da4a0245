// Package wallet pays lightning invoices through Nostr Wallet Connect
// (NIP-47). It is the domain.Wallet behind the use_webln setting.
package wallet
