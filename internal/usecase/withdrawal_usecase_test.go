package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

func newWithdrawalHarness(t *testing.T, now time.Time) *harness {
	t.Helper()

	h := newHarness(t)
	h.withdrawal.SetClock(func() time.Time { return now })
	h.store.PutPayoutWallet(domain.PayoutWallet{ID: "w1", UserID: "u1", Address: "TXpayout", Network: "trx"})
	h.store.PutPayoutWallet(domain.PayoutWallet{ID: "w2", UserID: "u2", Address: "TXother", Network: "trx"})

	return h
}

func TestWithdrawalUseCase_Create(t *testing.T) {
	now := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	h := newWithdrawalHarness(t, now)
	ctx := context.Background()

	h.credit(t, "u1", "100")

	w, err := h.withdrawal.Create(ctx, "u1", decimal.NewFromInt(40), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.Status != domain.WithdrawalStatusUnderReview {
		t.Errorf("expected UNDER_REVIEW, got %s", w.Status)
	}
	if w.TransactionNumber != "WD-20260309-0001" {
		t.Errorf("expected WD-20260309-0001, got %s", w.TransactionNumber)
	}
	if w.DestinationAddress != "TXpayout" || w.Network != "trx" {
		t.Errorf("unexpected destination %s/%s", w.DestinationAddress, w.Network)
	}
	if !h.balance(t, "u1").Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected balance 60, got %s", h.balance(t, "u1"))
	}

	account, _ := h.store.AccountOf("u1")
	entries := h.store.EntriesOf(account.ID)
	last := entries[len(entries)-1]
	if last.ID != w.LinkedLedgerEntryID || last.Kind != domain.EntryKindWithdrawal {
		t.Errorf("withdrawal not linked to its WITHDRAWAL entry: %+v", last)
	}
	if len(h.store.Events(domain.EventTypeWithdrawalCreated)) != 1 {
		t.Error("expected withdrawal.created event")
	}
	var audited bool
	for _, l := range h.store.AuditLogs() {
		if l.Action == string(domain.AuditActionWithdrawalCreate) && l.ResourceID == w.ID && l.UserID == "u1" {
			audited = true
		}
	}
	if !audited {
		t.Error("expected withdrawal.create audit record")
	}

	second, err := h.withdrawal.Create(ctx, "u1", decimal.NewFromInt(10), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.TransactionNumber != "WD-20260309-0002" {
		t.Errorf("expected WD-20260309-0002, got %s", second.TransactionNumber)
	}

	h.assertLedgerInvariant(t, "u1")
}

func TestWithdrawalUseCase_Create_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		seed     string
		amount   string
		walletID string
		freeze   bool
		wantErr  error
	}{
		{name: "insufficient balance", seed: "10", amount: "10.01", walletID: "w1", wantErr: domain.ErrInsufficientBalance},
		{name: "no wallet yet", amount: "1", walletID: "w1", wantErr: domain.ErrInsufficientBalance},
		{name: "foreign payout wallet", seed: "10", amount: "1", walletID: "w2", wantErr: domain.ErrWalletNotOwned},
		{name: "unknown payout wallet", seed: "10", amount: "1", walletID: "nope", wantErr: domain.ErrPayoutWalletNotFound},
		{name: "non-positive amount", seed: "10", amount: "-5", walletID: "w1", wantErr: domain.ErrInvalidAmount},
		{name: "frozen wallet", seed: "10", amount: "1", walletID: "w1", freeze: true, wantErr: domain.ErrAccountFrozen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newWithdrawalHarness(t, time.Now().UTC())
			ctx := context.Background()

			if tt.seed != "" {
				h.credit(t, "u1", tt.seed)
			}
			if tt.freeze {
				if _, err := h.wallet.SetFrozen(ctx, "u1", true); err != nil {
					t.Fatal(err)
				}
			}
			before := h.balance(t, "u1")

			_, err := h.withdrawal.Create(ctx, "u1", decimal.RequireFromString(tt.amount), tt.walletID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if !h.balance(t, "u1").Equal(before) {
				t.Errorf("balance changed from %s to %s", before, h.balance(t, "u1"))
			}
			if list, _ := h.withdrawal.List(ctx, "u1", 10, 0); len(list) != 0 {
				t.Errorf("expected no withdrawal rows, got %d", len(list))
			}
		})
	}
}

func TestWithdrawalUseCase_Review(t *testing.T) {
	tests := []struct {
		name    string
		steps   []domain.WithdrawalStatus
		wantErr error
		final   domain.WithdrawalStatus
	}{
		{name: "approve then pay", steps: []domain.WithdrawalStatus{domain.WithdrawalStatusApproved, domain.WithdrawalStatusPaid}, final: domain.WithdrawalStatusPaid},
		{name: "reject", steps: []domain.WithdrawalStatus{domain.WithdrawalStatusRejected}, final: domain.WithdrawalStatusRejected},
		{name: "reject after approval", steps: []domain.WithdrawalStatus{domain.WithdrawalStatusApproved, domain.WithdrawalStatusRejected}, final: domain.WithdrawalStatusRejected},
		{name: "pay without approval", steps: []domain.WithdrawalStatus{domain.WithdrawalStatusPaid}, wantErr: domain.ErrInvalidTransition, final: domain.WithdrawalStatusUnderReview},
		{name: "reopen paid", steps: []domain.WithdrawalStatus{domain.WithdrawalStatusApproved, domain.WithdrawalStatusPaid, domain.WithdrawalStatusUnderReview}, wantErr: domain.ErrInvalidTransition, final: domain.WithdrawalStatusPaid},
		{name: "unknown status", steps: []domain.WithdrawalStatus{"CANCELLED"}, wantErr: domain.ErrInvalidTransition, final: domain.WithdrawalStatusUnderReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newWithdrawalHarness(t, time.Now().UTC())
			h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			ctx := domain.ContextWithUser(context.Background(), &domain.User{ID: "admin-1", Role: domain.RoleAdmin})

			h.credit(t, "u1", "100")
			w, err := h.withdrawal.Create(ctx, "u1", decimal.NewFromInt(30), "w1")
			if err != nil {
				t.Fatal(err)
			}

			var lastErr error
			for _, step := range tt.steps {
				if _, lastErr = h.withdrawal.Review(ctx, w.ID, step, "checked"); lastErr != nil {
					break
				}
			}

			if tt.wantErr != nil && !errors.Is(lastErr, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, lastErr)
			}
			if tt.wantErr == nil && lastErr != nil {
				t.Fatalf("unexpected error: %v", lastErr)
			}

			got, err := h.withdrawal.Get(ctx, "u1", w.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Status != tt.final {
				t.Errorf("expected %s, got %s", tt.final, got.Status)
			}
			if got.Status.IsTerminal() && got.ProcessedAt == nil {
				t.Error("expected processed_at on terminal withdrawal")
			}

			// Reviewing never moves money
			if !h.balance(t, "u1").Equal(decimal.NewFromInt(70)) {
				t.Errorf("expected balance 70, got %s", h.balance(t, "u1"))
			}
		})
	}
}

func TestWithdrawalUseCase_Refund(t *testing.T) {
	h := newWithdrawalHarness(t, time.Now().UTC())
	h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()

	h.credit(t, "u1", "100")
	w, err := h.withdrawal.Create(ctx, "u1", decimal.NewFromInt(40), "w1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.withdrawal.Refund(ctx, w.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected refund of a pending withdrawal to fail, got %v", err)
	}

	if _, err := h.withdrawal.Review(ctx, w.ID, domain.WithdrawalStatusRejected, "bad address"); err != nil {
		t.Fatal(err)
	}

	entry, err := h.withdrawal.Refund(ctx, w.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind != domain.EntryKindRefund {
		t.Errorf("expected REFUND entry, got %s", entry.Kind)
	}
	if !h.balance(t, "u1").Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance restored to 100, got %s", h.balance(t, "u1"))
	}

	if _, err := h.withdrawal.Refund(ctx, w.ID); !errors.Is(err, domain.ErrDuplicateReference) {
		t.Errorf("expected second refund to be a duplicate, got %v", err)
	}
	h.assertLedgerInvariant(t, "u1")
}

func TestWithdrawalUseCase_GetAndList(t *testing.T) {
	h := newWithdrawalHarness(t, time.Now().UTC())
	ctx := context.Background()

	h.credit(t, "u1", "100")
	for i := 0; i < 3; i++ {
		if _, err := h.withdrawal.Create(ctx, "u1", decimal.NewFromInt(5), "w1"); err != nil {
			t.Fatal(err)
		}
	}

	list, err := h.withdrawal.List(ctx, "u1", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 withdrawals, got %d", len(list))
	}
	if list[0].TransactionNumber <= list[1].TransactionNumber {
		t.Errorf("expected newest first, got %s then %s", list[0].TransactionNumber, list[1].TransactionNumber)
	}

	if _, err := h.withdrawal.Get(ctx, "u2", list[0].ID); !errors.Is(err, domain.ErrWithdrawalNotFound) {
		t.Errorf("expected ErrWithdrawalNotFound for another user, got %v", err)
	}

	other, err := h.withdrawal.List(ctx, "u2", 10, 0)
	if err != nil || len(other) != 0 {
		t.Errorf("expected empty list for u2, got %d %v", len(other), err)
	}
}

func TestScenario_TopUpThenWithdraw(t *testing.T) {
	today := time.Now().UTC()
	h := newWithdrawalHarness(t, today)
	ctx := context.Background()
	h.trustSignatures()
	h.allowNotifications()
	h.expectInvoice("np-1")

	if _, err := h.payments.CreateTopUp(ctx, "u1", decimal.NewFromInt(100), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := h.payments.HandleWebhook(ctx, webhookBody("np-1", "finished"), "sig"); err != nil {
		t.Fatal(err)
	}

	w, err := h.withdrawal.Create(ctx, "u1", decimal.NewFromInt(40), "w1")
	if err != nil {
		t.Fatal(err)
	}

	balance, err := h.wallet.GetBalance(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Balance.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected 60, got %s", balance.Balance)
	}

	want := domain.FormatTransactionNumber(today, 1)
	if w.Status != domain.WithdrawalStatusUnderReview || w.TransactionNumber != want {
		t.Errorf("expected UNDER_REVIEW %s, got %s %s", want, w.Status, w.TransactionNumber)
	}

	entries, err := h.wallet.ListEntries(ctx, "u1", usecase.DefaultEntriesLimit)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Kind != domain.EntryKindWithdrawal || entries[1].Kind != domain.EntryKindCredit {
		t.Errorf("unexpected entries %+v", entries)
	}
	h.assertLedgerInvariant(t, "u1")
}
