// Package stubserver is the development stand-in for the wallet API. The
// web client this flow came from shipped with hard-coded mock data and
// fake latency; this server plays that role behind the real REST
// contract, so the client code exercises genuine HTTP instead of timers.
//
// State lives in memory on purpose: the platform backend and its storage
// are out of scope, and the stub must stay a test double.
package stubserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mahamat-dev/sahelpay/internal/ledger"
	"github.com/mahamat-dev/sahelpay/internal/settle"
	"github.com/mahamat-dev/sahelpay/internal/wallet"
)

var (
	ErrUnknownToken      = errors.New("unknown token")
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type account struct {
	userID  string
	name    string
	phone   string
	balance int64
}

type cachedResponse struct {
	status int
	body   []byte
}

// Store holds the stub's world: seeded accounts, the shared ledger and
// the idempotency replay cache.
type Store struct {
	mu       sync.Mutex
	feeBps   int64
	byToken  map[string]*account
	byPhone  map[string]*account
	byUserID map[string]*account
	txns     []ledger.Transaction // newest first
	replays  map[string]cachedResponse
	now      func() time.Time
}

// NewStore builds a store seeded with the demo accounts and a small mixed
// transaction history, mirroring the mock data the web client shipped
// with. Every account authenticates with the well-known token
// "stub-<user id>".
func NewStore(feeBps int64) *Store {
	if feeBps <= 0 {
		feeBps = settle.DefaultFeeBps
	}

	s := &Store{
		feeBps:   feeBps,
		byToken:  make(map[string]*account),
		byPhone:  make(map[string]*account),
		byUserID: make(map[string]*account),
		replays:  make(map[string]cachedResponse),
		now:      time.Now,
	}

	s.seed()

	return s
}

func (s *Store) addAccount(userID, name, phone string, balance int64) {
	a := &account{userID: userID, name: name, phone: phone, balance: balance}

	s.byToken["stub-"+userID] = a
	s.byPhone[phone] = a
	s.byUserID[userID] = a
}

func (s *Store) seed() {
	s.addAccount("u-1001", "Mahamat Abdoulaye", "+23566001122", 125000)
	s.addAccount("u-2002", "Fatimé Zara", "+23590000000", 40000)
	s.addAccount("u-3003", "Boutique Al-Nasr", "+23577889900", 300000)

	now := s.now()

	seedTxns := []ledger.Transaction{
		{
			ID:          "tx-seed-4",
			Type:        ledger.TypePurchase,
			FromUserID:  "u-1001",
			ToUserID:    "u-3003",
			FromName:    "Mahamat Abdoulaye",
			ToName:      "Boutique Al-Nasr",
			AmountMinor: 15000,
			FeeMinor:    150,
			Status:      ledger.StatusCompleted,
			CreatedAt:   now.Add(-24 * time.Hour),
			ProductName: "Carte mémoire 64 Go",
		},
		{
			ID:          "tx-seed-3",
			Type:        ledger.TypeP2P,
			FromUserID:  "u-2002",
			ToUserID:    "u-1001",
			FromName:    "Fatimé Zara",
			ToName:      "Mahamat Abdoulaye",
			AmountMinor: 5000,
			FeeMinor:    50,
			Status:      ledger.StatusCompleted,
			CreatedAt:   now.Add(-48 * time.Hour),
		},
		{
			ID:          "tx-seed-2",
			Type:        ledger.TypeBill,
			FromUserID:  "u-1001",
			ToUserID:    "service:sne",
			FromName:    "Mahamat Abdoulaye",
			ToName:      "SNE Électricité",
			AmountMinor: 12000,
			FeeMinor:    120,
			Status:      ledger.StatusCompleted,
			CreatedAt:   now.Add(-96 * time.Hour),
			ServiceType: "electricity",
		},
		{
			ID:          "tx-seed-1",
			Type:        ledger.TypeSubscription,
			FromUserID:  "u-3003",
			ToUserID:    "u-1001",
			FromName:    "Boutique Al-Nasr",
			ToName:      "Mahamat Abdoulaye",
			AmountMinor: 2500,
			FeeMinor:    25,
			Status:      ledger.StatusPending,
			CreatedAt:   now.Add(-7 * 24 * time.Hour),
		},
	}

	s.txns = seedTxns
}

// Authenticate resolves a bearer token to a user id.
func (s *Store) Authenticate(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byToken[token]
	if !ok {
		return "", ErrUnknownToken
	}

	return a.userID, nil
}

func (s *Store) Balance(userID string) (wallet.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byUserID[userID]
	if !ok {
		return wallet.Snapshot{}, ErrAccountNotFound
	}

	return wallet.Snapshot{BalanceMinor: a.balance, PhoneNumber: a.phone}, nil
}

// Transfer moves money between two wallets with the fee-from-amount
// policy: the sender pays exactly amount, the recipient receives
// amount-fee.
func (s *Store) Transfer(fromID, toPhone string, amount int64, note string) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.byUserID[fromID]
	if !ok {
		return ledger.Transaction{}, ErrAccountNotFound
	}

	to, ok := s.byPhone[toPhone]
	if !ok {
		return ledger.Transaction{}, ErrRecipientNotFound
	}

	priced := settle.ForTransfer(amount, s.feeBps)

	if from.balance < priced.TotalDebit {
		return ledger.Transaction{}, ErrInsufficientFunds
	}

	from.balance -= priced.TotalDebit
	to.balance += priced.NetCredit

	txn := ledger.Transaction{
		ID:          "tx-" + uuid.NewString(),
		Type:        ledger.TypeP2P,
		FromUserID:  from.userID,
		ToUserID:    to.userID,
		FromName:    from.name,
		ToName:      to.name,
		AmountMinor: amount,
		FeeMinor:    priced.Fee,
		Status:      ledger.StatusCompleted,
		CreatedAt:   s.now(),
	}

	s.txns = append([]ledger.Transaction{txn}, s.txns...)

	return txn, nil
}

// PayBill debits a wallet with the fee-on-top policy: the payer covers
// amount+fee and the biller is credited the full amount.
func (s *Store) PayBill(fromID, serviceType, serviceID string, amount int64, reference string) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.byUserID[fromID]
	if !ok {
		return ledger.Transaction{}, ErrAccountNotFound
	}

	priced := settle.ForBill(amount, s.feeBps)

	if from.balance < priced.TotalDebit {
		return ledger.Transaction{}, ErrInsufficientFunds
	}

	from.balance -= priced.TotalDebit

	txn := ledger.Transaction{
		ID:          "tx-" + uuid.NewString(),
		Type:        ledger.TypeBill,
		FromUserID:  from.userID,
		ToUserID:    "service:" + serviceID,
		FromName:    from.name,
		ToName:      serviceLabel(serviceType),
		AmountMinor: amount,
		FeeMinor:    priced.Fee,
		Status:      ledger.StatusCompleted,
		CreatedAt:   s.now(),
		ServiceType: serviceType,
	}

	s.txns = append([]ledger.Transaction{txn}, s.txns...)

	return txn, nil
}

func serviceLabel(serviceType string) string {
	switch serviceType {
	case "electricity":
		return "SNE Électricité"
	case "water":
		return "STE Eau"
	case "tax":
		return "Direction Générale des Impôts"
	default:
		return serviceType
	}
}

// Transactions returns the user's ledger, newest first, with the filter
// applied server-side.
func (s *Store) Transactions(userID string, f ledger.Filter) []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.Transaction, 0, len(s.txns))

	for _, t := range s.txns {
		if t.FromUserID != userID && t.ToUserID != userID {
			continue
		}

		if !f.Matches(t) {
			continue
		}

		out = append(out, t)
	}

	return out
}

// Replay returns the cached response for an idempotency key, if any.
func (s *Store) Replay(key string) (int, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.replays[key]

	return c.status, c.body, ok
}

// SaveReplay caches a response under an idempotency key. First writer
// wins, matching the at-most-once contract.
func (s *Store) SaveReplay(key string, status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.replays[key]; ok {
		return
	}

	s.replays[key] = cachedResponse{status: status, body: append([]byte(nil), body...)}
}
