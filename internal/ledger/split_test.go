package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(amount string, paidBy string, shares ...models.Share) models.Expense {
	return models.Expense{
		Amount:       dec(amount),
		PaidBy:       paidBy,
		SplitBetween: shares,
	}
}

func share(user, pct string) models.Share {
	return models.Share{UserID: user, Percentage: dec(pct)}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		exp     models.Expense
		wantErr bool
		want    []Delta
	}{
		{
			name: "two-way split excluding payer self-share",
			exp:  expense("100", "P", share("P", "50"), share("Q", "50")),
			want: []Delta{
				{Debtor: "Q", Creditor: "P", Amount: dec("50")},
			},
		},
		{
			name: "payer outside split owes nothing",
			exp:  expense("90", "P", share("Q", "50"), share("R", "50")),
			want: []Delta{
				{Debtor: "Q", Creditor: "P", Amount: dec("45")},
				{Debtor: "R", Creditor: "P", Amount: dec("45")},
			},
		},
		{
			name: "uneven percentages",
			exp:  expense("100", "P", share("Q", "33.33"), share("R", "33.33"), share("S", "33.34")),
			want: []Delta{
				{Debtor: "Q", Creditor: "P", Amount: dec("33.33")},
				{Debtor: "R", Creditor: "P", Amount: dec("33.33")},
				{Debtor: "S", Creditor: "P", Amount: dec("33.34")},
			},
		},
		{
			name: "round half even down",
			exp:  expense("10.05", "P", share("Q", "50"), share("P", "50")),
			want: []Delta{
				// 5.025 rounds to the even cent
				{Debtor: "Q", Creditor: "P", Amount: dec("5.02")},
			},
		},
		{
			name: "round half even up",
			exp:  expense("10.15", "P", share("Q", "50"), share("P", "50")),
			want: []Delta{
				{Debtor: "Q", Creditor: "P", Amount: dec("5.08")},
			},
		},
		{
			name: "sum within epsilon accepted",
			exp:  expense("100", "P", share("Q", "49.998"), share("R", "49.998")),
			want: []Delta{
				{Debtor: "Q", Creditor: "P", Amount: dec("50")},
				{Debtor: "R", Creditor: "P", Amount: dec("50")},
			},
		},
		{
			name:    "sum 99.99 rejected",
			exp:     expense("100", "P", share("Q", "49.99"), share("R", "50")),
			wantErr: true,
		},
		{
			name:    "sum 100.01 rejected",
			exp:     expense("100", "P", share("Q", "50.01"), share("R", "50")),
			wantErr: true,
		},
		{
			name:    "zero amount rejected",
			exp:     expense("0", "P", share("Q", "100")),
			wantErr: true,
		},
		{
			name:    "negative amount rejected",
			exp:     expense("-10", "P", share("Q", "100")),
			wantErr: true,
		},
		{
			name:    "empty split rejected",
			exp:     expense("10", "P"),
			wantErr: true,
		},
		{
			name:    "missing payer rejected",
			exp:     expense("10", "", share("Q", "100")),
			wantErr: true,
		},
		{
			name:    "zero percentage rejected",
			exp:     expense("10", "P", share("Q", "0"), share("R", "100")),
			wantErr: true,
		},
		{
			name:    "percentage above 100 rejected",
			exp:     expense("10", "P", share("Q", "100.5")),
			wantErr: true,
		},
		{
			name:    "duplicate participant rejected",
			exp:     expense("10", "P", share("Q", "50"), share("Q", "50")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.exp)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSplit) {
					t.Fatalf("Split() error = %v, want ErrInvalidSplit", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Split() returned %d deltas, want %d: %v", len(got), len(tt.want), got)
			}
			for i, d := range got {
				w := tt.want[i]
				if d.Debtor != w.Debtor || d.Creditor != w.Creditor || !d.Amount.Equal(w.Amount) {
					t.Errorf("delta[%d] = {%s %s %s}, want {%s %s %s}",
						i, d.Debtor, d.Creditor, d.Amount, w.Debtor, w.Creditor, w.Amount)
				}
			}
		})
	}
}

func TestSplitConservation(t *testing.T) {
	// The credited deltas must sum to the amount minus the payer's
	// self-share: splitting neither creates nor destroys money.
	exp := expense("120", "P", share("P", "25"), share("Q", "25"), share("R", "25"), share("S", "25"))
	deltas, err := Split(exp)
	if err != nil {
		t.Fatalf("Split() unexpected error: %v", err)
	}

	total := decimal.Zero
	for _, d := range deltas {
		total = total.Add(d.Amount)
	}
	want := dec("90") // 120 minus P's 30 self-share
	if !total.Equal(want) {
		t.Errorf("sum of deltas = %s, want %s", total, want)
	}
}

func TestSplitDeterministic(t *testing.T) {
	exp := expense("77.77", "P", share("Q", "33.33"), share("R", "66.67"))

	first, err := Split(exp)
	if err != nil {
		t.Fatalf("Split() unexpected error: %v", err)
	}
	second, err := Split(exp)
	if err != nil {
		t.Fatalf("Split() unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("repeated Split() lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Debtor != b.Debtor || a.Creditor != b.Creditor || !a.Amount.Equal(b.Amount) {
			t.Errorf("delta[%d] differs between runs: %v vs %v", i, a, b)
		}
	}
}
