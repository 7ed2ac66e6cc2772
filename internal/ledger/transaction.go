// Package ledger holds the read-only transaction history: the server-owned
// records and the viewer that turns them into display rows.
package ledger

import "time"

type Type string

const (
	TypeP2P          Type = "p2p"
	TypePurchase     Type = "purchase"
	TypeBill         Type = "bill"
	TypeSubscription Type = "subscription"
	TypePublication  Type = "publication"
)

func (t Type) Valid() bool {
	switch t {
	case TypeP2P, TypePurchase, TypeBill, TypeSubscription, TypePublication:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Badge is the label/tone pair shown next to a transaction's status.
type Badge struct {
	Label string
	Tone  string
}

func (s Status) Badge() Badge {
	switch s {
	case StatusCompleted:
		return Badge{Label: "Terminé", Tone: "success"}
	case StatusPending:
		return Badge{Label: "En attente", Tone: "warning"}
	case StatusFailed:
		return Badge{Label: "Échoué", Tone: "danger"}
	case StatusCancelled:
		return Badge{Label: "Annulé", Tone: "muted"}
	default:
		return Badge{Label: string(s), Tone: "muted"}
	}
}

// Transaction is the server-owned ledger record. The client only reads and
// filters it; nothing here is ever mutated locally.
type Transaction struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	FromUserID  string    `json:"from_user_id"`
	ToUserID    string    `json:"to_user_id"`
	FromName    string    `json:"from_display_name"`
	ToName      string    `json:"to_display_name"`
	AmountMinor int64     `json:"amount"`
	FeeMinor    int64     `json:"fee"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	ProductName string    `json:"product_name,omitempty"`
	ServiceType string    `json:"service_type,omitempty"`
}

// IsDebit reports whether the transaction took money out of userID's
// wallet. Exactly one of FromUserID/ToUserID equals the viewing user.
func (t Transaction) IsDebit(userID string) bool {
	return t.FromUserID == userID
}

// Counterparty returns the display name of the other side.
func (t Transaction) Counterparty(userID string) string {
	if t.IsDebit(userID) {
		return t.ToName
	}

	return t.FromName
}

// Filter narrows a ledger fetch. Zero-valued fields are unconstrained;
// set fields combine with logical AND.
type Filter struct {
	Type     Type
	DateFrom time.Time
	DateTo   time.Time
}

func (f Filter) IsZero() bool {
	return f.Type == "" && f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// Matches implements the filter semantics the server applies; the fake
// gateway and the stub server share it so client tests see server
// behavior.
func (f Filter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}

	if !f.DateFrom.IsZero() && t.CreatedAt.Before(f.DateFrom) {
		return false
	}

	if !f.DateTo.IsZero() && t.CreatedAt.After(f.DateTo) {
		return false
	}

	return true
}
