package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

func TestReconciliationUseCase_Balanced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.credit(t, "u1", "100")
	h.credit(t, "u2", "20")
	if _, err := h.wallet.Adjust(ctx, usecase.AdjustInput{UserID: "u1", Kind: domain.EntryKindDebit, Amount: decimal.NewFromInt(35)}); err != nil {
		t.Fatal(err)
	}

	uc := usecase.NewReconciliationUseCase(h.store.Accounts(), h.store.Entries(), h.store.Ledger())

	account, _ := h.store.AccountOf("u1")
	result, err := uc.ReconcileAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsReconciled || result.EntryCount != 2 {
		t.Errorf("expected reconciled account with 2 entries, got %+v", result)
	}
	if !result.CalculatedBalance.Equal(decimal.NewFromInt(65)) {
		t.Errorf("expected calculated 65, got %s", result.CalculatedBalance)
	}

	if err := uc.CheckLedgerConsistency(ctx); err != nil {
		t.Errorf("unexpected inconsistency: %v", err)
	}

	report, err := uc.GenerateReconciliationReport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalAccounts != 2 || report.ReconciledAccounts != 2 || !report.LedgerConsistent {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestReconciliationUseCase_DetectsDrift(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.credit(t, "u1", "100")
	account, _ := h.store.AccountOf("u1")

	// Move the materialized balance without an entry
	tx, _ := h.store.Begin(ctx)
	if err := h.store.Accounts().UpdateBalance(ctx, tx, account.ID, decimal.NewFromInt(90), account.UpdatedAt); err != nil {
		t.Fatal(err)
	}
	_ = tx.Commit(ctx)

	uc := usecase.NewReconciliationUseCase(h.store.Accounts(), h.store.Entries(), h.store.Ledger())

	result, err := uc.ReconcileAccount(ctx, account.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsReconciled {
		t.Error("expected drift to be detected")
	}
	if !result.Difference.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("expected difference -10, got %s", result.Difference)
	}

	err = uc.CheckLedgerConsistency(ctx)
	if !errors.Is(err, domain.ErrLedgerInconsistent) || !strings.Contains(err.Error(), "difference=-10") {
		t.Errorf("expected ledger inconsistency, got %v", err)
	}

	report, err := uc.GenerateReconciliationReport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Discrepancies) != 1 || report.LedgerConsistent || report.LedgerError == "" {
		t.Errorf("unexpected report %+v", report)
	}
}
