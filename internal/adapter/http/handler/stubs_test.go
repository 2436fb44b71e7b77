package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

func withUser(r *http.Request, id string, role domain.Role) *http.Request {
	return r.WithContext(domain.ContextWithUser(r.Context(), &domain.User{ID: id, Role: role}))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type paymentServiceStub struct {
	topUpFn   func(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*usecase.PaymentResult, error)
	joinFn    func(ctx context.Context, userID, marathonID, payCurrency string) (*usecase.PaymentResult, error)
	webhookFn func(ctx context.Context, body []byte, signature string) (*usecase.WebhookResult, error)
	syncFn    func(ctx context.Context, paymentID string) (*usecase.WebhookResult, error)
	expireFn  func(ctx context.Context, now time.Time) (int, error)
	getFn     func(ctx context.Context, userID, id string) (*domain.PaymentRequest, error)
}

func (s *paymentServiceStub) CreateTopUp(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*usecase.PaymentResult, error) {
	return s.topUpFn(ctx, userID, amount, payCurrency)
}

func (s *paymentServiceStub) CreateMarathonJoinPayment(ctx context.Context, userID, marathonID, payCurrency string) (*usecase.PaymentResult, error) {
	return s.joinFn(ctx, userID, marathonID, payCurrency)
}

func (s *paymentServiceStub) HandleWebhook(ctx context.Context, body []byte, signature string) (*usecase.WebhookResult, error) {
	return s.webhookFn(ctx, body, signature)
}

func (s *paymentServiceStub) SyncStatus(ctx context.Context, paymentID string) (*usecase.WebhookResult, error) {
	return s.syncFn(ctx, paymentID)
}

func (s *paymentServiceStub) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	return s.expireFn(ctx, now)
}

func (s *paymentServiceStub) GetPayment(ctx context.Context, userID, id string) (*domain.PaymentRequest, error) {
	return s.getFn(ctx, userID, id)
}

type withdrawalServiceStub struct {
	createFn func(ctx context.Context, userID string, amount decimal.Decimal, walletID string) (*domain.WithdrawalRequest, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.WithdrawalRequest, error)
	listFn   func(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error)
	reviewFn func(ctx context.Context, id string, to domain.WithdrawalStatus, note string) (*domain.WithdrawalRequest, error)
	refundFn func(ctx context.Context, id string) (*domain.LedgerEntry, error)
}

func (s *withdrawalServiceStub) Create(ctx context.Context, userID string, amount decimal.Decimal, walletID string) (*domain.WithdrawalRequest, error) {
	return s.createFn(ctx, userID, amount, walletID)
}

func (s *withdrawalServiceStub) Get(ctx context.Context, userID, id string) (*domain.WithdrawalRequest, error) {
	return s.getFn(ctx, userID, id)
}

func (s *withdrawalServiceStub) List(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error) {
	return s.listFn(ctx, userID, limit, offset)
}

func (s *withdrawalServiceStub) Review(ctx context.Context, id string, to domain.WithdrawalStatus, note string) (*domain.WithdrawalRequest, error) {
	return s.reviewFn(ctx, id, to, note)
}

func (s *withdrawalServiceStub) Refund(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return s.refundFn(ctx, id)
}

type walletServiceStub struct {
	getFn     func(ctx context.Context, userID string) (*domain.Account, error)
	balanceFn func(ctx context.Context, userID string) (*usecase.WalletBalance, error)
	entriesFn func(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error)
	frozenFn  func(ctx context.Context, userID string, frozen bool) (*domain.Account, error)
}

func (s *walletServiceStub) GetWallet(ctx context.Context, userID string) (*domain.Account, error) {
	return s.getFn(ctx, userID)
}

func (s *walletServiceStub) GetBalance(ctx context.Context, userID string) (*usecase.WalletBalance, error) {
	return s.balanceFn(ctx, userID)
}

func (s *walletServiceStub) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	return s.entriesFn(ctx, userID, limit)
}

func (s *walletServiceStub) SetFrozen(ctx context.Context, userID string, frozen bool) (*domain.Account, error) {
	return s.frozenFn(ctx, userID, frozen)
}

type countingRetrier struct {
	calls int
}

func (r *countingRetrier) Retry(_ context.Context, operation func() error) error {
	r.calls++
	return operation()
}
