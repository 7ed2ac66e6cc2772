package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mahamat-dev/sahelpay/internal/money"
	"github.com/mahamat-dev/sahelpay/internal/session"
)

// Gateway is the read side of the wallet API the viewer depends on.
// Results come back in reverse-chronological order; the viewer preserves
// that order and never re-sorts.
type Gateway interface {
	Transactions(ctx context.Context, f Filter) ([]Transaction, error)
}

type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Row is a transaction decorated with everything the list display needs.
type Row struct {
	Transaction

	Direction     Direction
	DisplayAmount string // signed, formatted: "-20 000 FCFA" / "+19 800 FCFA"
	Badge         Badge
	Counterparty  string
}

// Summary aggregates a non-empty row set: the count, the timestamp of the
// most recent transaction and the straight (unsigned) sum of amounts.
type Summary struct {
	Count      int
	LatestAt   time.Time
	TotalMinor int64
}

// Viewer loads the transaction history for one user and derives the
// display rows. A failed load degrades to an empty list that can be
// retried; it never takes the page down.
type Viewer struct {
	mu     sync.Mutex
	gw     Gateway
	userID string
	filter Filter
	rows   []Row
	loaded bool
	failed bool
}

func NewViewer(gw Gateway, sess session.Session) *Viewer {
	return &Viewer{gw: gw, userID: sess.UserID}
}

// Load fetches the ledger with the current filter and rebuilds the rows.
// On failure the previous rows are dropped, the failure is logged and the
// error is returned so the caller can offer a retry.
func (v *Viewer) Load(ctx context.Context) error {
	v.mu.Lock()
	filter := v.filter
	v.mu.Unlock()

	txns, err := v.gw.Transactions(ctx, filter)

	// A canceled context means the view is gone; leave state alone.
	if ctx.Err() != nil {
		return fmt.Errorf("load transactions: %w", ctx.Err())
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		slog.Error("load transactions", "error", err)

		v.rows = nil
		v.loaded = true
		v.failed = true

		return fmt.Errorf("load transactions: %w", err)
	}

	rows := make([]Row, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, v.buildRow(t))
	}

	v.rows = rows
	v.loaded = true
	v.failed = false

	return nil
}

func (v *Viewer) buildRow(t Transaction) Row {
	row := Row{
		Transaction:  t,
		Badge:        t.Status.Badge(),
		Counterparty: t.Counterparty(v.userID),
	}

	if t.IsDebit(v.userID) {
		row.Direction = Debit
		row.DisplayAmount = "-" + money.FormatXAF(t.AmountMinor)
	} else {
		row.Direction = Credit
		row.DisplayAmount = "+" + money.FormatXAF(t.AmountMinor)
	}

	return row
}

// SetFilter replaces the active filter. It does not reload; callers decide
// when to refetch.
func (v *Viewer) SetFilter(f Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter = f
}

// Reset clears every filter dimension and reloads the unfiltered ledger.
func (v *Viewer) Reset(ctx context.Context) error {
	v.mu.Lock()
	v.filter = Filter{}
	v.mu.Unlock()

	return v.Load(ctx)
}

func (v *Viewer) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.filter
}

// Rows returns the current display rows in server order.
func (v *Viewer) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Row, len(v.rows))
	copy(out, v.rows)

	return out
}

// Empty reports whether the last load produced no rows, which the UI
// renders as the "no transactions" placeholder instead of a bare table.
func (v *Viewer) Empty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.loaded && len(v.rows) == 0
}

// Failed reports whether the last load errored; the empty state then
// carries a retry affordance.
func (v *Viewer) Failed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.failed
}

// Summary aggregates the current rows. ok is false while the list is
// empty; the summary block is simply not shown then.
func (v *Viewer) Summary() (Summary, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.rows) == 0 {
		return Summary{}, false
	}

	s := Summary{
		Count: len(v.rows),
		// Server order is newest first.
		LatestAt: v.rows[0].CreatedAt,
	}

	for _, r := range v.rows {
		s.TotalMinor += r.AmountMinor
	}

	return s, true
}
