// Package settle computes the fee breakdown shown to the user before any
// money moves.
//
// Two pricing policies coexist on purpose: a P2P transfer takes the fee out
// of the amount sent (the recipient eats the fee), while a bill or tax
// payment adds the fee on top (the payer eats it, the biller receives the
// full amount owed). They must never be merged into one formula.
package settle

// DefaultFeeBps is the platform fee rate in basis points (1%).
const DefaultFeeBps = 100

// Settlement is the priced breakdown of a single operation, in minor units.
type Settlement struct {
	Fee        int64
	TotalDebit int64
	NetCredit  int64
}

// Fee computes the platform fee for amount at the given rate in basis
// points, rounding half-up to the nearest franc. Non-positive inputs
// price to zero.
func Fee(amount, bps int64) int64 {
	if amount <= 0 || bps <= 0 {
		return 0
	}

	return (amount*bps + 5000) / 10000
}

// ForTransfer prices a P2P transfer: the sender is debited exactly the
// amount entered and the recipient receives the remainder after the fee.
func ForTransfer(amount, bps int64) Settlement {
	if amount <= 0 {
		return Settlement{}
	}

	fee := Fee(amount, bps)

	return Settlement{
		Fee:        fee,
		TotalDebit: amount,
		NetCredit:  amount - fee,
	}
}

// ForBill prices a bill or tax payment: the fee goes on top of the amount
// owed, so the payer is debited amount+fee and the biller is credited the
// full amount.
func ForBill(amount, bps int64) Settlement {
	if amount <= 0 {
		return Settlement{}
	}

	fee := Fee(amount, bps)

	return Settlement{
		Fee:        fee,
		TotalDebit: amount + fee,
		NetCredit:  amount,
	}
}
