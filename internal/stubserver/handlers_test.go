package stubserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mahamat-dev/sahelpay/internal/ledger"
	"github.com/mahamat-dev/sahelpay/internal/stubserver"
	"github.com/mahamat-dev/sahelpay/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	return stubserver.NewRouter(stubserver.NewStore(100), metrics.NewCollector())
}

func doJSON(t *testing.T, h http.Handler, method, path, token, idemKey, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/wallet/balance", "", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want 401, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/wallet/balance", "stub-nobody", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status: want 401, got %d", rec.Code)
	}
}

func TestGetBalance(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/wallet/balance", "stub-u-1001", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%s)", rec.Code, rec.Body)
	}

	var snap struct {
		Balance int64  `json:"balance"`
		Phone   string `json:"phone_number"`
	}

	err := json.Unmarshal(rec.Body.Bytes(), &snap)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if snap.Balance != 125000 || snap.Phone != "+23566001122" {
		t.Fatalf("snapshot: got %+v", snap)
	}
}

func TestTransferEndToEndOverHTTP(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/p2p-transfer", "stub-u-1001", "key-1",
		`{"to_phone":"+23590000000","amount":20000,"note":"marché"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%s)", rec.Code, rec.Body)
	}

	var out struct {
		TransactionID string `json:"transaction_id"`
	}

	err := json.Unmarshal(rec.Body.Bytes(), &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.TransactionID == "" {
		t.Fatalf("expected a transaction id")
	}

	// Balances reflect fee-from-amount settlement.
	rec = doJSON(t, h, http.MethodGet, "/wallet/balance", "stub-u-1001", "", "")

	var snap struct {
		Balance int64 `json:"balance"`
	}

	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.Balance != 105000 {
		t.Fatalf("sender balance: want 105000, got %d", snap.Balance)
	}

	rec = doJSON(t, h, http.MethodGet, "/wallet/balance", "stub-u-2002", "", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.Balance != 59800 {
		t.Fatalf("recipient balance: want 59800, got %d", snap.Balance)
	}
}

func TestTransferErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "recipient_not_found",
			body:       `{"to_phone":"+23599999999","amount":1000}`,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Destinataire introuvable",
		},
		{
			name:       "insufficient_funds",
			body:       `{"to_phone":"+23590000000","amount":9000000}`,
			wantStatus: http.StatusConflict,
			wantMsg:    "Solde insuffisant",
		},
		{
			name:       "bad_phone",
			body:       `{"to_phone":"12345","amount":1000}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Numéro de téléphone invalide",
		},
		{
			name:       "zero_amount",
			body:       `{"to_phone":"+23590000000","amount":0}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Montant invalide",
		},
		{
			name:       "unknown_field",
			body:       `{"to_phone":"+23590000000","amount":1000,"surprise":true}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "JSON invalide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestRouter(t)

			rec := doJSON(t, h, http.MethodPost, "/wallet/p2p-transfer", "stub-u-1001", "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: want %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body)
			}

			var out struct {
				Error string `json:"error"`
			}

			err := json.Unmarshal(rec.Body.Bytes(), &out)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			if out.Error != tt.wantMsg {
				t.Fatalf("message: want %q, got %q", tt.wantMsg, out.Error)
			}
		})
	}
}

func TestIdempotencyReplay(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	body := `{"to_phone":"+23590000000","amount":10000}`

	first := doJSON(t, h, http.MethodPost, "/wallet/p2p-transfer", "stub-u-1001", "retry-key", body)
	if first.Code != http.StatusOK {
		t.Fatalf("first status: want 200, got %d", first.Code)
	}

	second := doJSON(t, h, http.MethodPost, "/wallet/p2p-transfer", "stub-u-1001", "retry-key", body)
	if second.Code != http.StatusOK {
		t.Fatalf("replay status: want 200, got %d", second.Code)
	}

	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}

	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", first.Body, second.Body)
	}

	// Money moved exactly once.
	rec := doJSON(t, h, http.MethodGet, "/wallet/balance", "stub-u-1001", "", "")

	var snap struct {
		Balance int64 `json:"balance"`
	}

	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.Balance != 115000 {
		t.Fatalf("sender balance: want 115000, got %d", snap.Balance)
	}
}

func TestPayBillOverHTTP(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/pay-bill", "stub-u-1001", "bill-key",
		`{"service_type":"electricity","service_id":"sne-meter-4471","amount":12000,"reference":"Facture août"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%s)", rec.Code, rec.Body)
	}

	// Fee on top: 12000 + 120.
	rec = doJSON(t, h, http.MethodGet, "/wallet/balance", "stub-u-1001", "", "")

	var snap struct {
		Balance int64 `json:"balance"`
	}

	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.Balance != 112880 {
		t.Fatalf("balance: want 112880, got %d", snap.Balance)
	}
}

func TestGetTransactionsFilters(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/wallet/transactions?type=bill", "stub-u-1001", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}

	var txns []ledger.Transaction

	err := json.Unmarshal(rec.Body.Bytes(), &txns)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(txns) != 1 || txns[0].Type != ledger.TypeBill {
		t.Fatalf("bill filter: got %+v", txns)
	}

	rec = doJSON(t, h, http.MethodGet, "/wallet/transactions?type=nonsense", "stub-u-1001", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type status: want 400, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/wallet/transactions?date_from=notadate", "stub-u-1001", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status: want 400, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
}
