package wallet

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"plebai/internal/crypto"
	"plebai/internal/domain"
)

const (
	KindRequest  = 23194
	KindResponse = 23195

	methodPayInvoice = "pay_invoice"
)

var errUnexpectedResponse = errors.New("wallet: unexpected response")

type request struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

type payInvoiceParams struct {
	Invoice string `json:"invoice"`
}

type response struct {
	ResultType string          `json:"result_type"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      *ResponseError  `json:"error,omitempty"`
}

type payInvoiceResult struct {
	Preimage string `json:"preimage"`
}

// ResponseError is an error reported by the wallet service, e.g.
// INSUFFICIENT_BALANCE or RATE_LIMITED.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("wallet: %s: %s", e.Code, e.Message)
}

// encodeRequest builds the signed kind 23194 event for method.
func encodeRequest(uri URI, method string, params any, createdAt nostr.Timestamp) (nostr.Event, error) {
	body, err := json.Marshal(request{Method: method, Params: params})
	if err != nil {
		return nostr.Event{}, err
	}
	ct, err := crypto.Encrypt(uri.Secret, uri.WalletPublicKey, string(body))
	if err != nil {
		return nostr.Event{}, err
	}
	return crypto.SignEvent(uri.Secret, domain.UnsignedEvent{
		Kind:      KindRequest,
		CreatedAt: createdAt,
		Tags:      nostr.Tags{{domain.TagRecipient, uri.WalletPublicKey}},
		Content:   ct,
	})
}

// decodeResponse opens a kind 23195 reply to the request with id requestID.
func decodeResponse(uri URI, requestID string, evt nostr.Event) (response, error) {
	if evt.Kind != KindResponse || evt.PubKey != uri.WalletPublicKey {
		return response{}, fmt.Errorf("%w: kind %d from %s", errUnexpectedResponse, evt.Kind, evt.PubKey)
	}
	if ref := evt.Tags.GetFirst([]string{"e", requestID}); ref == nil {
		return response{}, fmt.Errorf("%w: not a reply to %s", errUnexpectedResponse, requestID)
	}
	if err := crypto.VerifyEvent(evt); err != nil {
		return response{}, err
	}
	pt, err := crypto.Decrypt(uri.Secret, uri.WalletPublicKey, evt.Content)
	if err != nil {
		return response{}, err
	}
	var resp response
	if err := json.Unmarshal([]byte(pt), &resp); err != nil {
		return response{}, fmt.Errorf("%w: %w", errUnexpectedResponse, err)
	}
	return resp, nil
}

// payment extracts the pay_invoice result.
func (r response) payment() (domain.Payment, error) {
	if r.Error != nil {
		return domain.Payment{}, r.Error
	}
	if r.ResultType != methodPayInvoice {
		return domain.Payment{}, fmt.Errorf("%w: result type %q", errUnexpectedResponse, r.ResultType)
	}
	var res payInvoiceResult
	if err := json.Unmarshal(r.Result, &res); err != nil {
		return domain.Payment{}, fmt.Errorf("%w: %w", errUnexpectedResponse, err)
	}
	return domain.Payment{Preimage: res.Preimage}, nil
}
