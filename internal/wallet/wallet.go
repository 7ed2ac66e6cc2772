// Package wallet exposes the user's balance snapshot and its display
// component.
package wallet

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mahamat-dev/sahelpay/internal/money"
	"github.com/mahamat-dev/sahelpay/internal/session"
)

// Snapshot is the server's view of the wallet at fetch time. The balance
// is authoritative server-side; the client never adjusts it locally and
// learns of changes only by re-fetching.
type Snapshot struct {
	BalanceMinor int64  `json:"balance"`
	PhoneNumber  string `json:"phone_number"`
}

// Gateway is the read side of the wallet API the summary depends on.
type Gateway interface {
	Balance(ctx context.Context) (Snapshot, error)
}

// Summary is the balance header of the wallet page. A failed fetch
// degrades to a zero balance with a visible warning; the page never
// hard-fails because the balance endpoint is unreachable.
type Summary struct {
	mu       sync.Mutex
	gw       Gateway
	fallback Snapshot
	snap     Snapshot
	degraded bool
}

func NewSummary(gw Gateway, sess session.Session) *Summary {
	fb := Snapshot{PhoneNumber: sess.Phone}

	return &Summary{gw: gw, fallback: fb, snap: fb}
}

// Load refreshes the snapshot. It never returns an error: failure is the
// degraded zero-balance state, logged as a warning.
func (s *Summary) Load(ctx context.Context) {
	snap, err := s.gw.Balance(ctx)

	// A canceled context means the view is gone; leave state alone.
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		slog.Warn("wallet balance unavailable", "error", err)

		s.snap = s.fallback
		s.degraded = true

		return
	}

	s.snap = snap
	s.degraded = false
}

func (s *Summary) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snap
}

// Degraded reports whether the last load fell back to the zero balance.
func (s *Summary) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.degraded
}

// FormattedBalance renders the balance for display, e.g. "12 500 FCFA".
func (s *Summary) FormattedBalance() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return money.FormatXAF(s.snap.BalanceMinor)
}
