package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
	"github.com/iho/marathon-wallet/internal/usecase/mocks"
)

type harness struct {
	store      *mocks.Store
	cache      *mocks.MockCache
	idGen      *mocks.MockIDGenerator
	gateway    *mocks.MockPaymentGateway
	notifier   *mocks.MockNotifier
	assigner   *mocks.MockExecutionAccountAssigner
	wallet     *usecase.WalletUseCase
	payments   *usecase.PaymentUseCase
	withdrawal *usecase.WithdrawalUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &harness{
		store:    mocks.NewStore(),
		cache:    mocks.NewMockCache(),
		idGen:    mocks.NewMockIDGenerator(),
		gateway:  mocks.NewMockPaymentGateway(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		assigner: mocks.NewMockExecutionAccountAssigner(ctrl),
	}

	logger := zerolog.Nop()

	h.wallet = usecase.NewWalletUseCase(h.store, h.store.Accounts(), h.store.Entries(), h.store.Audit(), h.cache, h.idGen, nil, logger)

	h.payments = usecase.NewPaymentUseCase(usecase.PaymentUseCaseDeps{
		TxManager:    h.store,
		PaymentRepo:  h.store.Payments(),
		MarathonRepo: h.store.Marathons(),
		OutboxRepo:   h.store.Outbox(),
		AuditRepo:    h.store.Audit(),
		Wallet:       h.wallet,
		Gateway:      h.gateway,
		Assigner:     h.assigner,
		Notifier:     h.notifier,
		IDGen:        h.idGen,
		Logger:       logger,
	}, usecase.PaymentConfig{
		CallbackURL:        "https://api.example.com/api/v1/payments/webhook",
		DefaultPayCurrency: "usdttrc20",
	})

	h.withdrawal = usecase.NewWithdrawalUseCase(h.store, h.store.Withdrawals(), h.store.PayoutWallets(), h.store.Outbox(),
		h.store.Audit(), h.wallet, h.notifier, h.idGen, nil, logger)

	return h
}

// allowNotifications accepts any number of notifications and assignments.
func (h *harness) allowNotifications() {
	h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.assigner.EXPECT().AssignToParticipant(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (h *harness) credit(t *testing.T, userID string, amount string) *domain.LedgerEntry {
	t.Helper()

	entry, err := h.wallet.Adjust(context.Background(), usecase.AdjustInput{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Kind:        domain.EntryKindCredit,
		Description: "seed",
	})
	if err != nil {
		t.Fatalf("credit %s to %s: %v", amount, userID, err)
	}

	return entry
}

func (h *harness) balance(t *testing.T, userID string) decimal.Decimal {
	t.Helper()

	account, ok := h.store.AccountOf(userID)
	if !ok {
		return decimal.Zero
	}

	return account.Balance
}

// assertLedgerInvariant checks that the account balance equals the signed
// sum of its entries and the balance_after of the newest entry.
func (h *harness) assertLedgerInvariant(t *testing.T, userID string) {
	t.Helper()

	account, ok := h.store.AccountOf(userID)
	if !ok {
		return
	}

	entries := h.store.EntriesOf(account.ID)
	sum := decimal.Zero
	running := decimal.Zero
	for _, e := range entries {
		if !e.BalanceBefore.Equal(running) {
			t.Errorf("entry %s: balance_before %s, want %s", e.ID, e.BalanceBefore, running)
		}
		running = e.BalanceAfter
		sum = sum.Add(e.SignedAmount())
		if e.BalanceAfter.IsNegative() {
			t.Errorf("entry %s left a negative balance %s", e.ID, e.BalanceAfter)
		}
	}

	if !sum.Equal(account.Balance) {
		t.Errorf("signed sum %s != balance %s", sum, account.Balance)
	}

	if len(entries) > 0 && !running.Equal(account.Balance) {
		t.Errorf("last balance_after %s != balance %s", running, account.Balance)
	}
}
