package settle

import "testing"

func TestFee_RoundsHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		bps    int64
		want   int64
	}{
		{name: "exact", amount: 10000, bps: 100, want: 100},
		{name: "rounds_up_at_half", amount: 50, bps: 100, want: 1}, // 0.5 -> 1
		{name: "rounds_down_below_half", amount: 49, bps: 100, want: 0},
		{name: "rounds_up_above_half", amount: 51, bps: 100, want: 1},
		{name: "one_franc", amount: 1, bps: 100, want: 0},
		{name: "zero_amount", amount: 0, bps: 100, want: 0},
		{name: "negative_amount", amount: -100, bps: 100, want: 0},
		{name: "zero_rate", amount: 10000, bps: 0, want: 0},
		{name: "large_amount", amount: 5_000_000, bps: 100, want: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Fee(tt.amount, tt.bps)
			if got != tt.want {
				t.Fatalf("Fee(%d, %d): want %d, got %d", tt.amount, tt.bps, tt.want, got)
			}
		})
	}
}

func TestForTransfer_FeeComesOutOfAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		want   Settlement
	}{
		{
			name:   "ten_thousand",
			amount: 10000,
			want:   Settlement{Fee: 100, TotalDebit: 10000, NetCredit: 9900},
		},
		{
			name:   "twenty_thousand",
			amount: 20000,
			want:   Settlement{Fee: 200, TotalDebit: 20000, NetCredit: 19800},
		},
		{
			name:   "tiny",
			amount: 25,
			want:   Settlement{Fee: 0, TotalDebit: 25, NetCredit: 25},
		},
		{
			name:   "zero_prices_to_zero",
			amount: 0,
			want:   Settlement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForTransfer(tt.amount, DefaultFeeBps)
			if got != tt.want {
				t.Fatalf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestForBill_FeeGoesOnTop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		want   Settlement
	}{
		{
			name:   "five_thousand",
			amount: 5000,
			want:   Settlement{Fee: 50, TotalDebit: 5050, NetCredit: 5000},
		},
		{
			name:   "rounding_half_up",
			amount: 1050,
			want:   Settlement{Fee: 11, TotalDebit: 1061, NetCredit: 1050}, // 10.5 -> 11
		},
		{
			name:   "negative_prices_to_zero",
			amount: -1,
			want:   Settlement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForBill(tt.amount, DefaultFeeBps)
			if got != tt.want {
				t.Fatalf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}

// The two policies agree on the fee but never on the totals; a refactor
// that unifies them would trip this.
func TestPoliciesStayDistinct(t *testing.T) {
	t.Parallel()

	for _, amount := range []int64{100, 999, 10000, 123456} {
		transfer := ForTransfer(amount, DefaultFeeBps)
		bill := ForBill(amount, DefaultFeeBps)

		if transfer.Fee != bill.Fee {
			t.Fatalf("amount %d: fee mismatch: transfer %d, bill %d", amount, transfer.Fee, bill.Fee)
		}

		if transfer.TotalDebit != amount {
			t.Fatalf("amount %d: transfer must debit exactly the amount, got %d", amount, transfer.TotalDebit)
		}

		if bill.TotalDebit != amount+bill.Fee {
			t.Fatalf("amount %d: bill must debit amount+fee, got %d", amount, bill.TotalDebit)
		}

		if transfer.NetCredit+transfer.Fee != transfer.TotalDebit {
			t.Fatalf("amount %d: transfer settlement does not balance: %+v", amount, transfer)
		}

		if bill.NetCredit+bill.Fee != bill.TotalDebit {
			t.Fatalf("amount %d: bill settlement does not balance: %+v", amount, bill)
		}
	}
}
