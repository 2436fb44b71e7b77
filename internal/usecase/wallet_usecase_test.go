package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

func TestWalletUseCase_Adjust(t *testing.T) {
	tests := []struct {
		name      string
		seed      string
		input     usecase.AdjustInput
		wantErr   error
		wantAfter string
	}{
		{
			name:      "credit creates wallet",
			input:     usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: decimal.RequireFromString("100")},
			wantAfter: "100",
		},
		{
			name:      "debit within balance",
			seed:      "100",
			input:     usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindDebit, Amount: decimal.RequireFromString("40")},
			wantAfter: "60",
		},
		{
			name:      "debit of the whole balance",
			seed:      "100",
			input:     usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindWithdrawal, Amount: decimal.RequireFromString("100")},
			wantAfter: "0",
		},
		{
			name:    "debit beyond balance",
			seed:    "100",
			input:   usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindDebit, Amount: decimal.RequireFromString("100.01")},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name:    "zero amount",
			input:   usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: decimal.Zero},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "amount rounding to zero",
			input:   usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: decimal.RequireFromString("0.004")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown kind",
			input:   usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKind("BONUS"), Amount: decimal.NewFromInt(1)},
			wantErr: domain.ErrInvalidEntryKind,
		},
		{
			name:    "unknown account",
			input:   usecase.AdjustInput{AccountID: "missing", Kind: domain.EntryKindCredit, Amount: decimal.NewFromInt(1)},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:      "amount rounded half up",
			input:     usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: decimal.RequireFromString("10.005")},
			wantAfter: "10.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.seed != "" {
				h.credit(t, "u1", tt.seed)
			}

			entry, err := h.wallet.Adjust(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				h.assertLedgerInvariant(t, "u1")
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := decimal.RequireFromString(tt.wantAfter)
			if !entry.BalanceAfter.Equal(want) {
				t.Errorf("expected balance_after %s, got %s", want, entry.BalanceAfter)
			}
			if !h.balance(t, "u1").Equal(want) {
				t.Errorf("expected balance %s, got %s", want, h.balance(t, "u1"))
			}
			h.assertLedgerInvariant(t, "u1")
		})
	}
}

func TestWalletUseCase_Adjust_DuplicateReference(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ref := "pay-1"
	refKind := domain.ReferenceKindPayment

	input := usecase.AdjustInput{
		UserID:        "u1",
		Kind:          domain.EntryKindCredit,
		Amount:        decimal.NewFromInt(25),
		ReferenceKind: &refKind,
		ReferenceID:   &ref,
	}

	if _, err := h.wallet.Adjust(ctx, input); err != nil {
		t.Fatalf("first adjust: %v", err)
	}

	_, err := h.wallet.Adjust(ctx, input)
	if !errors.Is(err, domain.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}

	if !h.balance(t, "u1").Equal(decimal.NewFromInt(25)) {
		t.Errorf("balance changed by duplicate: %s", h.balance(t, "u1"))
	}

	// Same reference with another kind is a different adjustment
	input.Kind = domain.EntryKindDebit
	if _, err := h.wallet.Adjust(ctx, input); err != nil {
		t.Fatalf("debit with same reference: %v", err)
	}

	if !h.balance(t, "u1").IsZero() {
		t.Errorf("expected zero balance, got %s", h.balance(t, "u1"))
	}
	h.assertLedgerInvariant(t, "u1")
}

func TestWalletUseCase_CreditThenDebitRestoresBalance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.credit(t, "u1", "12.34")
	start := h.balance(t, "u1")

	for _, amount := range []string{"0.01", "7.5", "999.99"} {
		x := decimal.RequireFromString(amount)

		if _, err := h.wallet.Adjust(ctx, usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: x}); err != nil {
			t.Fatalf("credit %s: %v", amount, err)
		}
		if _, err := h.wallet.Adjust(ctx, usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindDebit, Amount: x}); err != nil {
			t.Fatalf("debit %s: %v", amount, err)
		}

		if !h.balance(t, "u1").Equal(start) {
			t.Fatalf("after +/-%s balance is %s, want %s", amount, h.balance(t, "u1"), start)
		}
	}

	h.assertLedgerInvariant(t, "u1")
}

// The in-memory store serializes whole transactions, so this checks the
// balance guard and rollback, not row locking. Row-level contention is
// covered by TestIntegration_ConcurrentDebitsNeverOverdraw against Postgres.
func TestWalletUseCase_SerializedConcurrentDebits(t *testing.T) {
	h := newHarness(t)
	h.credit(t, "u1", "100")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.wallet.Adjust(context.Background(), usecase.AdjustInput{
				UserID: "u1",
				Kind:   domain.EntryKindDebit,
				Amount: decimal.NewFromInt(60),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientBalance):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected one success and one rejection, got %d/%d", succeeded, rejected)
	}

	if !h.balance(t, "u1").Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected balance 40, got %s", h.balance(t, "u1"))
	}
	h.assertLedgerInvariant(t, "u1")
}

func TestWalletUseCase_FailedEntryInsertRollsBack(t *testing.T) {
	h := newHarness(t)
	h.credit(t, "u1", "50")

	h.store.EntryCreateErr = errors.New("connection reset")

	_, err := h.wallet.Adjust(context.Background(), usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: decimal.NewFromInt(10)})
	if err == nil {
		t.Fatal("expected error")
	}

	if !h.balance(t, "u1").Equal(decimal.NewFromInt(50)) {
		t.Errorf("balance changed despite failure: %s", h.balance(t, "u1"))
	}
}

func TestWalletUseCase_Freeze(t *testing.T) {
	h := newHarness(t)
	ctx := domain.ContextWithUser(context.Background(), &domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	h.credit(t, "u1", "100")

	account, err := h.wallet.SetFrozen(ctx, "u1", true)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if !account.Frozen {
		t.Fatal("expected frozen account")
	}

	_, err = h.wallet.Adjust(ctx, usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindWithdrawal, Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrAccountFrozen) {
		t.Fatalf("expected ErrAccountFrozen, got %v", err)
	}

	// Credits still land on a frozen wallet
	if _, err := h.wallet.Adjust(ctx, usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindCredit, Amount: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("credit to frozen wallet: %v", err)
	}

	if _, err := h.wallet.SetFrozen(ctx, "u1", false); err != nil {
		t.Fatalf("unfreeze: %v", err)
	}

	if _, err := h.wallet.Adjust(ctx, usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindDebit, Amount: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("debit after unfreeze: %v", err)
	}

	logs := h.store.AuditLogs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit logs, got %d", len(logs))
	}
	if logs[0].Action != string(domain.AuditActionWalletFreeze) || logs[0].UserID != "admin-1" {
		t.Errorf("unexpected audit log %+v", logs[0])
	}
}

func TestWalletUseCase_GetBalance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	balance, err := h.wallet.GetBalance(ctx, "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Balance.IsZero() || balance.Currency != domain.DefaultCurrency {
		t.Errorf("expected zero USD balance, got %+v", balance)
	}

	h.credit(t, "u1", "42.50")

	balance, err = h.wallet.GetBalance(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Balance.Equal(decimal.RequireFromString("42.5")) {
		t.Errorf("expected 42.50, got %s", balance.Balance)
	}
	if !h.cache.Has("wallet:balance:u1") {
		t.Error("expected balance to be cached")
	}

	h.credit(t, "u1", "7.50")
	if h.cache.Has("wallet:balance:u1") {
		t.Error("expected cache invalidated after adjust")
	}

	balance, _ = h.wallet.GetBalance(ctx, "u1")
	if !balance.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50, got %s", balance.Balance)
	}
}

func TestWalletUseCase_ListEntries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entries, err := h.wallet.ListEntries(ctx, "nobody", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}

	for i := 0; i < 5; i++ {
		h.credit(t, "u1", "1")
	}

	entries, err = h.wallet.ListEntries(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].BalanceAfter.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected newest entry first, got balance_after %s", entries[0].BalanceAfter)
	}
}
