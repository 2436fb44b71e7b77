package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_CheckAdjust(t *testing.T) {
	tests := []struct {
		name      string
		balance   decimal.Decimal
		frozen    bool
		kind      EntryKind
		amount    decimal.Decimal
		expectErr error
	}{
		{
			name:    "debit less than balance",
			balance: decimal.NewFromInt(100),
			kind:    EntryKindDebit,
			amount:  decimal.NewFromInt(50),
		},
		{
			name:    "debit exact balance",
			balance: decimal.NewFromInt(100),
			kind:    EntryKindDebit,
			amount:  decimal.NewFromInt(100),
		},
		{
			name:      "debit more than balance",
			balance:   decimal.NewFromInt(100),
			kind:      EntryKindDebit,
			amount:    decimal.RequireFromString("100.01"),
			expectErr: ErrInsufficientBalance,
		},
		{
			name:      "withdrawal more than balance",
			balance:   decimal.Zero,
			kind:      EntryKindWithdrawal,
			amount:    decimal.NewFromInt(1),
			expectErr: ErrInsufficientBalance,
		},
		{
			name:      "frozen account rejects debit",
			balance:   decimal.NewFromInt(100),
			frozen:    true,
			kind:      EntryKindDebit,
			amount:    decimal.NewFromInt(1),
			expectErr: ErrAccountFrozen,
		},
		{
			name:      "frozen account rejects withdrawal",
			balance:   decimal.NewFromInt(100),
			frozen:    true,
			kind:      EntryKindWithdrawal,
			amount:    decimal.NewFromInt(1),
			expectErr: ErrAccountFrozen,
		},
		{
			name:    "frozen account accepts credit",
			balance: decimal.Zero,
			frozen:  true,
			kind:    EntryKindCredit,
			amount:  decimal.NewFromInt(10),
		},
		{
			name:    "frozen account accepts refund",
			balance: decimal.Zero,
			frozen:  true,
			kind:    EntryKindRefund,
			amount:  decimal.NewFromInt(10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance, Frozen: tt.frozen}

			err := acc.CheckAdjust(tt.kind, tt.amount)

			if tt.expectErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expectErr != nil && !errors.Is(err, tt.expectErr) {
				t.Fatalf("expected %v, got %v", tt.expectErr, err)
			}
		})
	}
}

func TestAccount_Apply(t *testing.T) {
	acc := &Account{Balance: decimal.RequireFromString("100.00")}

	credited := acc.Apply(EntryKindCredit, decimal.RequireFromString("25.50"))
	if !credited.Equal(decimal.RequireFromString("125.50")) {
		t.Errorf("expected 125.50 after credit, got %s", credited)
	}

	debited := acc.Apply(EntryKindWithdrawal, decimal.RequireFromString("40"))
	if !debited.Equal(decimal.RequireFromString("60")) {
		t.Errorf("expected 60 after withdrawal, got %s", debited)
	}

	refunded := acc.Apply(EntryKindRefund, decimal.RequireFromString("0.01"))
	if !refunded.Equal(decimal.RequireFromString("100.01")) {
		t.Errorf("expected 100.01 after refund, got %s", refunded)
	}
}

func TestNewAccount(t *testing.T) {
	acc := NewAccount("acc-1", "user-1", fixedTime)

	if acc.Currency != DefaultCurrency {
		t.Errorf("expected currency %s, got %s", DefaultCurrency, acc.Currency)
	}
	if !acc.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", acc.Balance)
	}
	if acc.Frozen {
		t.Error("new account must not be frozen")
	}
}

func TestLedgerEntry_IsBalanced(t *testing.T) {
	debit := &LedgerEntry{
		Kind:          EntryKindDebit,
		Amount:        decimal.RequireFromString("30"),
		BalanceBefore: decimal.RequireFromString("100"),
		BalanceAfter:  decimal.RequireFromString("70"),
	}
	if !debit.IsBalanced() {
		t.Error("expected debit entry to be balanced")
	}
	if !debit.SignedAmount().Equal(decimal.RequireFromString("-30")) {
		t.Errorf("expected signed amount -30, got %s", debit.SignedAmount())
	}

	broken := &LedgerEntry{
		Kind:          EntryKindCredit,
		Amount:        decimal.RequireFromString("30"),
		BalanceBefore: decimal.RequireFromString("100"),
		BalanceAfter:  decimal.RequireFromString("70"),
	}
	if broken.IsBalanced() {
		t.Error("credit that lowers the balance must not be balanced")
	}
}

func TestEntryKind(t *testing.T) {
	for _, k := range []EntryKind{EntryKindCredit, EntryKindDebit, EntryKindRefund, EntryKindWithdrawal} {
		if !k.IsValid() {
			t.Errorf("expected %s to be valid", k)
		}
	}

	if EntryKind("BONUS").IsValid() {
		t.Error("unknown kind must be invalid")
	}

	if EntryKindCredit.IsDebit() || EntryKindRefund.IsDebit() {
		t.Error("credit and refund increase the balance")
	}
	if !EntryKindDebit.IsDebit() || !EntryKindWithdrawal.IsDebit() {
		t.Error("debit and withdrawal decrease the balance")
	}
}
