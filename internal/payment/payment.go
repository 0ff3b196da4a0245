// Package payment pays lightning invoices through an injected wallet.
//
// The Handler only attempts the payment. What happens after a failure (fall
// back to an invoice listener, or drop the event) is decided by the
// conversation session.
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"plebai/internal/domain"
)

// Handler pays invoices with a domain.Wallet.
type Handler struct {
	wallet domain.Wallet
	log    zerolog.Logger
}

// New returns a Handler. A nil wallet is allowed: every Pay then fails with
// domain.ErrPaymentFailed wrapping domain.ErrCapabilityUnavailable.
func New(wallet domain.Wallet, log zerolog.Logger) *Handler {
	return &Handler{wallet: wallet, log: log.With().Str("component", "payment").Logger()}
}

// Pay enables the wallet and asks it to pay invoice.
func (h *Handler) Pay(ctx context.Context, invoice string) (domain.Payment, error) {
	invoice = strings.TrimSpace(invoice)
	if invoice == "" {
		return domain.Payment{}, fmt.Errorf("%w: empty invoice", domain.ErrPaymentFailed)
	}
	if h.wallet == nil {
		return domain.Payment{}, fmt.Errorf("%w: no wallet: %w", domain.ErrPaymentFailed, domain.ErrCapabilityUnavailable)
	}
	if err := h.wallet.Enable(ctx); err != nil {
		return domain.Payment{}, fmt.Errorf("%w: enable wallet: %w", domain.ErrPaymentFailed, err)
	}
	p, err := h.wallet.SendPayment(ctx, invoice)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("%w: %w", domain.ErrPaymentFailed, err)
	}
	h.log.Info().Str("invoice", abbreviate(invoice)).Msg("invoice paid")
	return p, nil
}

// abbreviate keeps log lines short; invoices run to hundreds of characters.
func abbreviate(s string) string {
	if len(s) <= 24 {
		return s
	}
	return s[:16] + "…" + s[len(s)-6:]
}
