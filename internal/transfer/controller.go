package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mahamat-dev/sahelpay/internal/gateway"
	"github.com/mahamat-dev/sahelpay/internal/money"
	"github.com/mahamat-dev/sahelpay/internal/phone"
	"github.com/mahamat-dev/sahelpay/internal/session"
	"github.com/mahamat-dev/sahelpay/internal/settle"
)

// User-facing copy, surfaced verbatim by the form.
const (
	msgRecipientRequired = "Veuillez saisir le numéro du destinataire"
	msgRecipientInvalid  = "Numéro de téléphone invalide"
	msgSelfTransfer      = "Impossible d'envoyer de l'argent à votre propre compte"
	msgAmountInvalid     = "Veuillez saisir un montant valide"
	msgTransferFailed    = "Le transfert a échoué. Veuillez réessayer."
)

// Draft is the editable form state. Amount stays a raw string until
// validation so the fee preview can tolerate half-typed input.
type Draft struct {
	Recipient string
	Amount    string
	Note      string
}

// Confirmation is the read-only summary shown in the confirm dialog.
type Confirmation struct {
	Recipient   string // canonical +235XXXXXXXX form
	AmountMinor int64
	Note        string
	Settlement  settle.Settlement
}

// CommitFunc runs after a submission has committed server-side. The
// ledger viewer's refresh hangs off this, which is what sequences the
// re-fetch strictly after the transfer call resolves.
type CommitFunc func(Receipt)

// Controller drives the P2P transfer form.
type Controller struct {
	mu       sync.Mutex
	gw       Gateway
	sess     session.Session
	feeBps   int64
	state    State
	draft    Draft
	pending  Confirmation
	key      string
	lastErr  string
	onCommit CommitFunc
}

// NewController wires the form to a gateway for the given session.
// feeBps <= 0 selects the platform default rate.
func NewController(gw Gateway, sess session.Session, feeBps int64) *Controller {
	if feeBps <= 0 {
		feeBps = settle.DefaultFeeBps
	}

	return &Controller{
		gw:     gw,
		sess:   sess,
		feeBps: feeBps,
		state:  StateEditing,
	}
}

// OnCommitted registers the post-commit hook. Typically the ledger
// viewer's Load and the balance summary's refresh.
func (c *Controller) OnCommitted(fn CommitFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onCommit = fn
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.draft
}

// LastError returns the current user-facing error message, empty when
// there is none.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// SetRecipient updates the draft. Mutations are accepted only while
// Editing; anything else is a no-op, matching a form whose inputs are
// disabled outside edit mode.
func (c *Controller) SetRecipient(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return
	}

	c.draft.Recipient = s
}

func (c *Controller) SetAmount(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return
	}

	c.draft.Amount = s
}

func (c *Controller) SetNote(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return
	}

	c.draft.Note = s
}

// Preview prices the draft as typed. Unparseable or non-positive amounts
// preview as a zero settlement, and the submit control stays disabled.
func (c *Controller) Preview() settle.Settlement {
	c.mu.Lock()
	defer c.mu.Unlock()

	amount, err := money.Parse(c.draft.Amount)
	if err != nil {
		return settle.Settlement{}
	}

	return settle.ForTransfer(amount, c.feeBps)
}

// CanSubmit reports whether the draft would pass validation, used to
// enable the submit control.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.validateLocked()

	return err == nil
}

// Begin validates the draft and, on success, moves Editing -> Confirming,
// capturing the summary for the confirm dialog and minting the
// idempotency key for this confirmation. On validation failure the form
// stays in Editing and LastError carries the single user-facing message.
func (c *Controller) Begin() (Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return Confirmation{}, fmt.Errorf("begin in state %s: %w", c.state, ErrNothingToConfirm)
	}

	conf, err := c.validateLocked()
	if err != nil {
		return Confirmation{}, err
	}

	c.pending = conf
	c.key = uuid.NewString()
	c.state = StateConfirming
	c.lastErr = ""

	return conf, nil
}

// validateLocked checks the draft and builds the confirmation. The first
// failing rule wins; the form shows one message at a time.
func (c *Controller) validateLocked() (Confirmation, error) {
	if c.draft.Recipient == "" {
		return Confirmation{}, c.failLocked(msgRecipientRequired)
	}

	recipient, err := phone.Normalize(c.draft.Recipient)
	if err != nil {
		return Confirmation{}, c.failLocked(msgRecipientInvalid)
	}

	if own, err := phone.Normalize(c.sess.Phone); err == nil && own == recipient {
		return Confirmation{}, c.failLocked(msgSelfTransfer)
	}

	amount, err := money.Parse(c.draft.Amount)
	if err != nil || amount <= 0 {
		return Confirmation{}, c.failLocked(msgAmountInvalid)
	}

	return Confirmation{
		Recipient:   recipient,
		AmountMinor: amount,
		Note:        c.draft.Note,
		Settlement:  settle.ForTransfer(amount, c.feeBps),
	}, nil
}

func (c *Controller) failLocked(msg string) error {
	c.lastErr = msg

	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// Cancel backs out of the confirm dialog; the draft stays editable.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfirming {
		return
	}

	c.state = StateEditing
	c.key = ""
}

// Confirm executes the pending submission, exactly once per
// confirmation. While the call is on the wire the controller is in
// StateSubmitting and any further Confirm returns ErrSubmissionInFlight
// without touching the network.
//
// Success clears the draft, returns to Editing and fires the committed
// hook. Failure keeps the draft, returns to Editing and stores the server
// message (verbatim when available) as LastError.
func (c *Controller) Confirm(ctx context.Context) (Receipt, error) {
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

	req := Request{
		ToPhone:        c.pending.Recipient,
		AmountMinor:    c.pending.AmountMinor,
		Note:           c.pending.Note,
		IdempotencyKey: c.key,
	}
	settled := c.pending.Settlement
	hook := c.onCommit

	c.mu.Unlock()

	rcpt, err := c.gw.SubmitTransfer(ctx, req)

	c.mu.Lock()

	if err != nil {
		c.state = StateEditing
		c.key = ""
		c.lastErr = submitFailureMessage(err)

		c.mu.Unlock()

		slog.Warn("transfer rejected", "recipient", req.ToPhone, "error", err)

		return Receipt{}, fmt.Errorf("submit transfer: %w", err)
	}

	rcpt.Settled = settled
	c.draft = Draft{}
	c.pending = Confirmation{}
	c.key = ""
	c.state = StateEditing
	c.lastErr = ""

	c.mu.Unlock()

	slog.Info("transfer committed",
		"transaction_id", rcpt.TransactionID,
		"net_credit", settled.NetCredit,
	)

	if hook != nil {
		hook(rcpt)
	}

	return rcpt, nil
}

// submitFailureMessage prefers the server's own wording over the generic
// fallback.
func submitFailureMessage(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return msgTransferFailed
}
