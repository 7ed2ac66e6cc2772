package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mahamat-dev/sahelpay/internal/ledger"
	"github.com/mahamat-dev/sahelpay/internal/phone"
	"github.com/mahamat-dev/sahelpay/pkg/metrics"
)

type ctxKey int

const ctxKeyUserID ctxKey = iota

// Handlers serves the wallet endpoints from a Store.
type Handlers struct {
	store     *Store
	collector *metrics.Collector
}

func NewHandlers(store *Store, collector *metrics.Collector) *Handlers {
	return &Handlers{store: store, collector: collector}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyUserID).(string)

	return id
}

// Auth resolves the bearer token and stores the user id on the request
// context. The stub only knows its seeded tokens.
func (h *Handlers) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "Authentification requise")

			return
		}

		id, err := h.store.Authenticate(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Session invalide")

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type responseRecorder struct {
	http.ResponseWriter

	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)

	return r.ResponseWriter.Write(p)
}

// Idempotency replays the cached response when a money-moving request
// repeats an Idempotency-Key, so a transport retry cannot double-move
// money. Requests without a key pass straight through.
func (h *Handlers) Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next.ServeHTTP(w, r)

			return
		}

		status, body, ok := h.store.Replay(key)
		if ok {
			slog.Info("idempotency replay", "key", key)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replayed", "true")
			w.WriteHeader(status)
			_, _ = w.Write(body)

			return
		}

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.store.SaveReplay(key, rec.status, rec.body.Bytes())
	})
}

// --- Endpoints ---

// GetBalance handles GET /wallet/balance.
func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Balance(userID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "Portefeuille introuvable")

		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// GetTransactions handles GET /wallet/transactions with optional type,
// date_from and date_to query parameters (RFC 3339 dates).
func (h *Handlers) GetTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f ledger.Filter

	if raw := q.Get("type"); raw != "" {
		t := ledger.Type(raw)
		if !t.Valid() {
			writeError(w, http.StatusBadRequest, "Type de transaction invalide")

			return
		}

		f.Type = t
	}

	if raw := q.Get("date_from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Date de début invalide")

			return
		}

		f.DateFrom = ts
	}

	if raw := q.Get("date_to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Date de fin invalide")

			return
		}

		f.DateTo = ts
	}

	writeJSON(w, http.StatusOK, h.store.Transactions(userID(r), f))
}

type transferRequest struct {
	ToPhone string `json:"to_phone"`
	Amount  int64  `json:"amount"`
	Note    string `json:"note,omitempty"`
}

// PostTransfer handles POST /wallet/p2p-transfer.
func (h *Handlers) PostTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest

	if !decodeBody(w, r, &req) {
		return
	}

	toPhone, err := phone.Normalize(req.ToPhone)
	if err != nil {
		h.collector.RecordTransfer(0, false)
		writeError(w, http.StatusBadRequest, "Numéro de téléphone invalide")

		return
	}

	if req.Amount <= 0 {
		h.collector.RecordTransfer(0, false)
		writeError(w, http.StatusBadRequest, "Montant invalide")

		return
	}

	txn, err := h.store.Transfer(userID(r), toPhone, req.Amount, req.Note)
	if err != nil {
		h.collector.RecordTransfer(0, false)

		switch {
		case errors.Is(err, ErrRecipientNotFound):
			writeError(w, http.StatusNotFound, "Destinataire introuvable")
		case errors.Is(err, ErrInsufficientFunds):
			writeError(w, http.StatusConflict, "Solde insuffisant")
		default:
			writeError(w, http.StatusInternalServerError, "Erreur interne")
		}

		return
	}

	h.collector.RecordTransfer(txn.AmountMinor, true)
	h.recordBalances(txn.FromUserID, txn.ToUserID)

	writeJSON(w, http.StatusOK, map[string]string{"transaction_id": txn.ID})
}

type billRequest struct {
	ServiceType string `json:"service_type"`
	ServiceID   string `json:"service_id"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference,omitempty"`
}

// PostPayBill handles POST /wallet/pay-bill.
func (h *Handlers) PostPayBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest

	if !decodeBody(w, r, &req) {
		return
	}

	if req.ServiceType == "" || req.ServiceID == "" {
		h.collector.RecordBillPayment(0, false)
		writeError(w, http.StatusBadRequest, "Service invalide")

		return
	}

	if req.Amount <= 0 {
		h.collector.RecordBillPayment(0, false)
		writeError(w, http.StatusBadRequest, "Montant invalide")

		return
	}

	txn, err := h.store.PayBill(userID(r), req.ServiceType, req.ServiceID, req.Amount, req.Reference)
	if err != nil {
		h.collector.RecordBillPayment(0, false)

		if errors.Is(err, ErrInsufficientFunds) {
			writeError(w, http.StatusConflict, "Solde insuffisant")

			return
		}

		writeError(w, http.StatusInternalServerError, "Erreur interne")

		return
	}

	h.collector.RecordBillPayment(txn.AmountMinor, true)
	h.recordBalances(txn.FromUserID)

	writeJSON(w, http.StatusOK, map[string]string{"transaction_id": txn.ID})
}

// decodeBody reads a size-capped JSON body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Corps de requête vide")

			return false
		}

		writeError(w, http.StatusBadRequest, "JSON invalide")

		return false
	}

	return true
}

func (h *Handlers) recordBalances(userIDs ...string) {
	for _, id := range userIDs {
		snap, err := h.store.Balance(id)
		if err != nil {
			continue
		}

		h.collector.SetBalance(snap.PhoneNumber, snap.BalanceMinor)
	}
}
