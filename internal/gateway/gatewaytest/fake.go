// Package gatewaytest provides an in-memory gateway double for the wallet
// flow. It implements the wallet, ledger and transfer gateway interfaces
// and records enough about each call to assert ordering and
// at-most-once properties.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mahamat-dev/sahelpay/internal/ledger"
	"github.com/mahamat-dev/sahelpay/internal/transfer"
	"github.com/mahamat-dev/sahelpay/internal/wallet"
)

type Fake struct {
	mu sync.Mutex

	// Scripted responses.
	BalanceSnap wallet.Snapshot
	BalanceErr  error
	Txns        []ledger.Transaction
	TxnsErr     error
	TransferErr error
	BillErr     error

	// OnTransfer, when set, replaces the default transfer behavior; used
	// to block or fail mid-call. Calls are counted either way.
	OnTransfer func(req transfer.Request) (transfer.Receipt, error)

	calls         []string
	transferCalls int
	billCalls     int
	lastTransfer  transfer.Request
	lastBill      transfer.BillRequest
	nextID        int
}

func New() *Fake {
	return &Fake{}
}

func (f *Fake) Balance(ctx context.Context) (wallet.Snapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "balance")
	snap, err := f.BalanceSnap, f.BalanceErr
	f.mu.Unlock()

	return snap, err
}

// Transactions applies the filter the way the server would and returns
// the stored slice order (newest first by convention of the tests).
func (f *Fake) Transactions(ctx context.Context, filter ledger.Filter) ([]ledger.Transaction, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "transactions")
	txns, err := f.Txns, f.TxnsErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := make([]ledger.Transaction, 0, len(txns))
	for _, t := range txns {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}

	return out, nil
}

func (f *Fake) SubmitTransfer(ctx context.Context, req transfer.Request) (transfer.Receipt, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "transfer")
	f.transferCalls++
	f.lastTransfer = req
	hook := f.OnTransfer
	err := f.TransferErr
	f.nextID++
	id := fmt.Sprintf("tx-%04d", f.nextID)
	f.mu.Unlock()

	if hook != nil {
		return hook(req)
	}

	if err != nil {
		return transfer.Receipt{}, err
	}

	return transfer.Receipt{TransactionID: id}, nil
}

func (f *Fake) PayBill(ctx context.Context, req transfer.BillRequest) (transfer.Receipt, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "bill")
	f.billCalls++
	f.lastBill = req
	err := f.BillErr
	f.nextID++
	id := fmt.Sprintf("tx-%04d", f.nextID)
	f.mu.Unlock()

	if err != nil {
		return transfer.Receipt{}, err
	}

	return transfer.Receipt{TransactionID: id}, nil
}

// Calls returns the gateway operations in invocation order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.calls))
	copy(out, f.calls)

	return out
}

func (f *Fake) TransferCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.transferCalls
}

func (f *Fake) BillCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.billCalls
}

func (f *Fake) LastTransfer() transfer.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastTransfer
}

func (f *Fake) LastBill() transfer.BillRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastBill
}
