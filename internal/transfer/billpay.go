package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mahamat-dev/sahelpay/internal/money"
	"github.com/mahamat-dev/sahelpay/internal/session"
	"github.com/mahamat-dev/sahelpay/internal/settle"
)

const (
	msgServiceRequired = "Veuillez sélectionner un service"
	msgPaymentFailed   = "Le paiement a échoué. Veuillez réessayer."
)

// BillDraft is the editable state of the bill/tax payment form.
type BillDraft struct {
	ServiceType string
	ServiceID   string
	Amount      string
	Reference   string
}

// BillConfirmation is the read-only summary for the payment confirm
// dialog. TotalDebit includes the fee: on bills the payer eats it.
type BillConfirmation struct {
	ServiceType string
	ServiceID   string
	AmountMinor int64
	Reference   string
	Settlement  settle.Settlement
}

// BillController drives the bill-payment form. Same lifecycle as the
// transfer controller, priced with the fee-on-top policy.
type BillController struct {
	mu       sync.Mutex
	gw       Gateway
	sess     session.Session
	feeBps   int64
	state    State
	draft    BillDraft
	pending  BillConfirmation
	key      string
	lastErr  string
	onCommit CommitFunc
}

func NewBillController(gw Gateway, sess session.Session, feeBps int64) *BillController {
	if feeBps <= 0 {
		feeBps = settle.DefaultFeeBps
	}

	return &BillController{
		gw:     gw,
		sess:   sess,
		feeBps: feeBps,
		state:  StateEditing,
	}
}

func (c *BillController) OnCommitted(fn CommitFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onCommit = fn
}

func (c *BillController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *BillController) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// SetDraft replaces the whole form at once; bill forms are filled from a
// service picker rather than field by field. No-op outside Editing.
func (c *BillController) SetDraft(d BillDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return
	}

	c.draft = d
}

func (c *BillController) Draft() BillDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.draft
}

// Preview prices the draft with the fee on top, showing the user the
// "Total à payer" before confirmation.
func (c *BillController) Preview() settle.Settlement {
	c.mu.Lock()
	defer c.mu.Unlock()

	amount, err := money.Parse(c.draft.Amount)
	if err != nil {
		return settle.Settlement{}
	}

	return settle.ForBill(amount, c.feeBps)
}

// Begin validates and moves Editing -> Confirming.
func (c *BillController) Begin() (BillConfirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return BillConfirmation{}, fmt.Errorf("begin in state %s: %w", c.state, ErrNothingToConfirm)
	}

	if c.draft.ServiceType == "" || c.draft.ServiceID == "" {
		c.lastErr = msgServiceRequired

		return BillConfirmation{}, fmt.Errorf("%s: %w", msgServiceRequired, ErrValidation)
	}

	amount, err := money.Parse(c.draft.Amount)
	if err != nil || amount <= 0 {
		c.lastErr = msgAmountInvalid

		return BillConfirmation{}, fmt.Errorf("%s: %w", msgAmountInvalid, ErrValidation)
	}

	c.pending = BillConfirmation{
		ServiceType: c.draft.ServiceType,
		ServiceID:   c.draft.ServiceID,
		AmountMinor: amount,
		Reference:   c.draft.Reference,
		Settlement:  settle.ForBill(amount, c.feeBps),
	}
	c.key = uuid.NewString()
	c.state = StateConfirming
	c.lastErr = ""

	return c.pending, nil
}

func (c *BillController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfirming {
		return
	}

	c.state = StateEditing
	c.key = ""
}

// Confirm executes the pending payment, exactly once per confirmation,
// with the same in-flight guard as the transfer form.
func (c *BillController) Confirm(ctx context.Context) (Receipt, error) {
	c.mu.Lock()

	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()

		return Receipt{}, ErrSubmissionInFlight
	case StateConfirming:
	default:
		c.mu.Unlock()

		return Receipt{}, ErrNothingToConfirm
	}

	c.state = StateSubmitting

	req := BillRequest{
		ServiceType:    c.pending.ServiceType,
		ServiceID:      c.pending.ServiceID,
		AmountMinor:    c.pending.AmountMinor,
		Reference:      c.pending.Reference,
		IdempotencyKey: c.key,
	}
	settled := c.pending.Settlement
	hook := c.onCommit

	c.mu.Unlock()

	rcpt, err := c.gw.PayBill(ctx, req)

	c.mu.Lock()

	if err != nil {
		c.state = StateEditing
		c.key = ""

		if msg := submitFailureMessage(err); msg != msgTransferFailed {
			c.lastErr = msg
		} else {
			c.lastErr = msgPaymentFailed
		}

		c.mu.Unlock()

		slog.Warn("bill payment rejected", "service_type", req.ServiceType, "error", err)

		return Receipt{}, fmt.Errorf("pay bill: %w", err)
	}

	rcpt.Settled = settled
	c.draft = BillDraft{}
	c.pending = BillConfirmation{}
	c.key = ""
	c.state = StateEditing
	c.lastErr = ""

	c.mu.Unlock()

	slog.Info("bill payment committed",
		"transaction_id", rcpt.TransactionID,
		"total_debit", settled.TotalDebit,
	)

	if hook != nil {
		hook(rcpt)
	}

	return rcpt, nil
}
