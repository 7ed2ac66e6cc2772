// Package rest implements the wallet API gateways over HTTP, speaking the
// platform's REST contract:
//
//	GET  /wallet/balance
//	POST /wallet/p2p-transfer
//	POST /wallet/pay-bill
//	GET  /wallet/transactions
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mahamat-dev/sahelpay/internal/gateway"
	"github.com/mahamat-dev/sahelpay/internal/ledger"
	"github.com/mahamat-dev/sahelpay/internal/session"
	"github.com/mahamat-dev/sahelpay/internal/transfer"
	"github.com/mahamat-dev/sahelpay/internal/wallet"
)

const defaultTimeout = 15 * time.Second

// Client talks to the wallet API on behalf of one session. It implements
// wallet.Gateway, ledger.Gateway and transfer.Gateway.
type Client struct {
	base string
	http *http.Client
	sess session.Session
}

// New builds a client for baseURL. hc may be nil, in which case a client
// with the platform default timeout is used. No retries: a timed-out or
// failed call surfaces as a single failure.
func New(baseURL string, hc *http.Client, sess session.Session) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: hc,
		sess: sess,
	}
}

func (c *Client) Balance(ctx context.Context) (wallet.Snapshot, error) {
	var snap wallet.Snapshot

	err := c.do(ctx, http.MethodGet, "/wallet/balance", "", nil, &snap)
	if err != nil {
		return wallet.Snapshot{}, fmt.Errorf("get balance: %w", err)
	}

	return snap, nil
}

func (c *Client) Transactions(ctx context.Context, f ledger.Filter) ([]ledger.Transaction, error) {
	path := "/wallet/transactions"

	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}

	if !f.DateFrom.IsZero() {
		q.Set("date_from", f.DateFrom.Format(time.RFC3339))
	}

	if !f.DateTo.IsZero() {
		q.Set("date_to", f.DateTo.Format(time.RFC3339))
	}

	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var txns []ledger.Transaction

	err := c.do(ctx, http.MethodGet, path, "", nil, &txns)
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}

	return txns, nil
}

func (c *Client) SubmitTransfer(ctx context.Context, req transfer.Request) (transfer.Receipt, error) {
	body := struct {
		ToPhone string `json:"to_phone"`
		Amount  int64  `json:"amount"`
		Note    string `json:"note,omitempty"`
	}{
		ToPhone: req.ToPhone,
		Amount:  req.AmountMinor,
		Note:    req.Note,
	}

	var resp struct {
		TransactionID string `json:"transaction_id"`
	}

	err := c.do(ctx, http.MethodPost, "/wallet/p2p-transfer", req.IdempotencyKey, body, &resp)
	if err != nil {
		return transfer.Receipt{}, fmt.Errorf("p2p transfer: %w", err)
	}

	return transfer.Receipt{TransactionID: resp.TransactionID}, nil
}

func (c *Client) PayBill(ctx context.Context, req transfer.BillRequest) (transfer.Receipt, error) {
	body := struct {
		ServiceType string `json:"service_type"`
		ServiceID   string `json:"service_id"`
		Amount      int64  `json:"amount"`
		Reference   string `json:"reference,omitempty"`
	}{
		ServiceType: req.ServiceType,
		ServiceID:   req.ServiceID,
		Amount:      req.AmountMinor,
		Reference:   req.Reference,
	}

	var resp struct {
		TransactionID string `json:"transaction_id"`
	}

	err := c.do(ctx, http.MethodPost, "/wallet/pay-bill", req.IdempotencyKey, body, &resp)
	if err != nil {
		return transfer.Receipt{}, fmt.Errorf("pay bill: %w", err)
	}

	return transfer.Receipt{TransactionID: resp.TransactionID}, nil
}

// do performs one request/response cycle. Non-2xx responses are decoded
// into *gateway.APIError so callers can surface the server's message.
func (c *Client) do(ctx context.Context, method, path, idemKey string, in, out any) error {
	var body *bytes.Reader

	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}

	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &gateway.APIError{Status: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}

	// A malformed error body still maps to an APIError with the status
	// alone; the UI then falls back to its generic message.
	err := json.NewDecoder(resp.Body).Decode(&payload)
	if err == nil {
		apiErr.Message = payload.Error
	}

	return apiErr
}
