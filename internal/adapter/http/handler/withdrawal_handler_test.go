package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
)

func sampleWithdrawal() *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:                 "wd-1",
		UserID:             "user-1",
		AccountID:          "acc-1",
		Amount:             decimal.RequireFromString("40"),
		DestinationAddress: "TXdest",
		Network:            "trx",
		TransactionNumber:  "WD-20250301-0001",
		Status:             domain.WithdrawalStatusUnderReview,
		CreatedAt:          time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWithdrawalHandler_Create_Success(t *testing.T) {
	var gotWallet string
	retrier := &countingRetrier{}

	h := NewWithdrawalHandler(&withdrawalServiceStub{
		createFn: func(ctx context.Context, userID string, amount decimal.Decimal, walletID string) (*domain.WithdrawalRequest, error) {
			gotWallet = walletID
			if userID != "user-1" || !amount.Equal(decimal.NewFromInt(40)) {
				t.Fatalf("unexpected input %s %s", userID, amount)
			}
			return sampleWithdrawal(), nil
		},
	}, retrier)

	req := withUser(httptest.NewRequest(http.MethodPost, "/withdrawals", strings.NewReader(`{"amount":"40.00","wallet_id":"pw-1"}`)), "user-1", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotWallet != "pw-1" {
		t.Fatalf("expected wallet pw-1, got %s", gotWallet)
	}
	if retrier.calls != 1 {
		t.Fatalf("expected create to run through the retrier")
	}

	var resp dto.WithdrawalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TransactionNumber != "WD-20250301-0001" || resp.Status != "UNDER_REVIEW" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestWithdrawalHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		expected int
	}{
		{"missing wallet", `{"amount":"10"}`, nil, http.StatusBadRequest},
		{"insufficient balance", `{"amount":"10","wallet_id":"pw-1"}`, domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"frozen wallet", `{"amount":"10","wallet_id":"pw-1"}`, domain.ErrAccountFrozen, http.StatusLocked},
		{"foreign payout wallet", `{"amount":"10","wallet_id":"pw-1"}`, domain.ErrWalletNotOwned, http.StatusForbidden},
		{"unknown payout wallet", `{"amount":"10","wallet_id":"pw-1"}`, domain.ErrPayoutWalletNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWithdrawalHandler(&withdrawalServiceStub{
				createFn: func(ctx context.Context, userID string, amount decimal.Decimal, walletID string) (*domain.WithdrawalRequest, error) {
					return nil, tt.err
				},
			}, nil)

			req := withUser(httptest.NewRequest(http.MethodPost, "/withdrawals", strings.NewReader(tt.body)), "user-1", domain.RoleUser)
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestWithdrawalHandler_List_ClampsPaging(t *testing.T) {
	var gotLimit, gotOffset int

	h := NewWithdrawalHandler(&withdrawalServiceStub{
		listFn: func(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.WithdrawalRequest{sampleWithdrawal()}, nil
		},
	}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/withdrawals?limit=1000&offset=-5", nil), "user-1", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 100 || gotOffset != 0 {
		t.Fatalf("expected clamped paging 100/0, got %d/%d", gotLimit, gotOffset)
	}

	var resp dto.ListWithdrawalsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Withdrawals) != 1 {
		t.Fatalf("expected one withdrawal, got %d", len(resp.Withdrawals))
	}
}

func TestWithdrawalHandler_Get(t *testing.T) {
	h := NewWithdrawalHandler(&withdrawalServiceStub{
		getFn: func(ctx context.Context, userID, id string) (*domain.WithdrawalRequest, error) {
			if userID != "user-1" || id != "wd-1" {
				return nil, domain.ErrWithdrawalNotFound
			}
			return sampleWithdrawal(), nil
		},
	}, nil)

	req := withURLParam(withUser(httptest.NewRequest(http.MethodGet, "/withdrawals/wd-1", nil), "user-1", domain.RoleUser), "id", "wd-1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = withURLParam(withUser(httptest.NewRequest(http.MethodGet, "/withdrawals/wd-1", nil), "user-2", domain.RoleUser), "id", "wd-1")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's withdrawal, got %d", rec.Code)
	}
}

func TestWithdrawalHandler_Review(t *testing.T) {
	var gotStatus domain.WithdrawalStatus
	var gotNote string

	h := NewWithdrawalHandler(&withdrawalServiceStub{
		reviewFn: func(ctx context.Context, id string, to domain.WithdrawalStatus, note string) (*domain.WithdrawalRequest, error) {
			gotStatus, gotNote = to, note
			w := sampleWithdrawal()
			w.Status = to
			w.ReviewNote = note
			return w, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/withdrawals/wd-1/review", strings.NewReader(`{"status":"REJECTED","note":"address flagged"}`))
	req = withURLParam(withUser(req, "admin-1", domain.RoleAdmin), "id", "wd-1")
	rec := httptest.NewRecorder()

	h.Review(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotStatus != domain.WithdrawalStatusRejected || gotNote != "address flagged" {
		t.Fatalf("unexpected review input %s %q", gotStatus, gotNote)
	}
}

func TestWithdrawalHandler_Review_InvalidTransition(t *testing.T) {
	h := NewWithdrawalHandler(&withdrawalServiceStub{
		reviewFn: func(ctx context.Context, id string, to domain.WithdrawalStatus, note string) (*domain.WithdrawalRequest, error) {
			return nil, domain.ErrInvalidTransition
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/wd-1/review", strings.NewReader(`{"status":"PAID"}`)), "id", "wd-1")
	rec := httptest.NewRecorder()

	h.Review(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWithdrawalHandler_Refund(t *testing.T) {
	h := NewWithdrawalHandler(&withdrawalServiceStub{
		refundFn: func(ctx context.Context, id string) (*domain.LedgerEntry, error) {
			return &domain.LedgerEntry{
				ID:           "entry-9",
				AccountID:    "acc-1",
				Kind:         domain.EntryKindRefund,
				Amount:       decimal.RequireFromString("40"),
				BalanceAfter: decimal.RequireFromString("100"),
			}, nil
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/wd-1/refund", nil), "id", "wd-1")
	rec := httptest.NewRecorder()

	h.Refund(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != "REFUND" {
		t.Fatalf("expected REFUND entry, got %s", resp.Kind)
	}
}
