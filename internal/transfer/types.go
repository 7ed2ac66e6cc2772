// Package transfer owns the money-moving forms: the P2P transfer
// controller and the bill-payment controller. Both walk the same
// lifecycle: Editing -> Confirming -> Submitting -> back to Editing,
// cleared on success, preserved on failure.
package transfer

import (
	"context"
	"errors"

	"github.com/mahamat-dev/sahelpay/internal/settle"
)

type State string

const (
	StateEditing    State = "editing"
	StateConfirming State = "confirming"
	StateSubmitting State = "submitting"
)

var (
	// ErrSubmissionInFlight is returned when Confirm is called while a
	// submission is already on the wire. The duplicate call performs no
	// network activity; this is the only money-losing race in the flow
	// and it is guarded by state, not by debouncing.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrNothingToConfirm is returned when Confirm is called outside the
	// Confirming state.
	ErrNothingToConfirm = errors.New("no pending confirmation")

	// ErrValidation marks a local validation failure; the user-facing
	// message is available via LastError.
	ErrValidation = errors.New("validation failed")
)

// Request is one P2P transfer submission. The idempotency key is minted
// client-side per confirmation so a transport-level retry cannot
// double-move money.
type Request struct {
	ToPhone        string
	AmountMinor    int64
	Note           string
	IdempotencyKey string
}

// BillRequest is one bill or tax payment submission.
type BillRequest struct {
	ServiceType    string
	ServiceID      string
	AmountMinor    int64
	Reference      string
	IdempotencyKey string
}

// Receipt is what comes back from a committed submission, combined with
// the settlement the user confirmed.
type Receipt struct {
	TransactionID string
	Settled       settle.Settlement
}

// Gateway is the write side of the wallet API.
type Gateway interface {
	SubmitTransfer(ctx context.Context, req Request) (Receipt, error)
	PayBill(ctx context.Context, req BillRequest) (Receipt, error)
}
