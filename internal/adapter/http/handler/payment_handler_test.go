package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

func pendingPayment(id string) *domain.PaymentRequest {
	return &domain.PaymentRequest{
		ID:          id,
		UserID:      "user-1",
		ExternalID:  "np-" + id,
		Purpose:     domain.PaymentPurposeWalletTopUp,
		Amount:      decimal.RequireFromString("25"),
		PayAmount:   decimal.RequireFromString("25.13"),
		PayCurrency: "usdttrc20",
		PayAddress:  "TXaddr",
		Status:      domain.PaymentStatusPending,
		Fulfillment: domain.FulfillmentNone,
	}
}

func TestPaymentHandler_TopUp_Success(t *testing.T) {
	var gotUser, gotCurrency string
	var gotAmount decimal.Decimal

	h := NewPaymentHandler(&paymentServiceStub{
		topUpFn: func(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*usecase.PaymentResult, error) {
			gotUser, gotAmount, gotCurrency = userID, amount, payCurrency
			return &usecase.PaymentResult{Payment: pendingPayment("pay-1")}, nil
		},
	}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/payment/topup", strings.NewReader(`{"amount":"25","pay_currency":"usdttrc20"}`))
	req = withUser(req, "user-1", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.TopUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != "user-1" || gotCurrency != "usdttrc20" || !gotAmount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected use case input: %s %s %s", gotUser, gotAmount, gotCurrency)
	}

	var resp dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "pay-1" || resp.PayAddress != "TXaddr" || resp.Status != "PENDING" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPaymentHandler_TopUp_ReusedInvoiceReturns200(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		topUpFn: func(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*usecase.PaymentResult, error) {
			return &usecase.PaymentResult{Payment: pendingPayment("pay-1"), Reused: true}, nil
		},
	}, nil, zerolog.Nop())

	req := withUser(httptest.NewRequest(http.MethodPost, "/payment/topup", strings.NewReader(`{"amount":25}`)), "user-1", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.TopUp(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for reused invoice, got %d", rec.Code)
	}
}

func TestPaymentHandler_TopUp_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		expected int
	}{
		{"invalid json", `{`, nil, http.StatusBadRequest},
		{"invalid amount", `{"amount":"0"}`, domain.ErrInvalidAmount, http.StatusBadRequest},
		{"gateway down", `{"amount":"10"}`, fmt.Errorf("%w: after 3 attempts", domain.ErrGatewayUnavailable), http.StatusServiceUnavailable},
		{"gateway rejected", `{"amount":"10"}`, domain.ErrGatewayRejected, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPaymentHandler(&paymentServiceStub{
				topUpFn: func(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*usecase.PaymentResult, error) {
					return nil, tt.err
				},
			}, nil, zerolog.Nop())

			req := withUser(httptest.NewRequest(http.MethodPost, "/payment/topup", strings.NewReader(tt.body)), "user-1", domain.RoleUser)
			rec := httptest.NewRecorder()

			h.TopUp(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPaymentHandler_TopUp_RequiresUser(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.TopUp(rec, httptest.NewRequest(http.MethodPost, "/payment/topup", strings.NewReader(`{"amount":"10"}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPaymentHandler_JoinMarathon_EmptyBody(t *testing.T) {
	var gotMarathon, gotCurrency string

	h := NewPaymentHandler(&paymentServiceStub{
		joinFn: func(ctx context.Context, userID, marathonID, payCurrency string) (*usecase.PaymentResult, error) {
			gotMarathon, gotCurrency = marathonID, payCurrency
			p := pendingPayment("pay-2")
			p.Purpose = domain.PaymentPurposeMarathonJoin
			p.MarathonID = &marathonID
			return &usecase.PaymentResult{Payment: p}, nil
		},
	}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/payment/marathon/m-1", nil)
	req = withURLParam(withUser(req, "user-1", domain.RoleUser), "marathonId", "m-1")
	rec := httptest.NewRecorder()

	h.JoinMarathon(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotMarathon != "m-1" || gotCurrency != "" {
		t.Fatalf("unexpected input marathon=%q currency=%q", gotMarathon, gotCurrency)
	}
}

func TestPaymentHandler_JoinMarathon_CapacityExceeded(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		joinFn: func(ctx context.Context, userID, marathonID, payCurrency string) (*usecase.PaymentResult, error) {
			return nil, domain.ErrCapacityExceeded
		},
	}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/payment/marathon/m-1", strings.NewReader(`{"pay_currency":"btc"}`))
	req = withURLParam(withUser(req, "user-1", domain.RoleUser), "marathonId", "m-1")
	rec := httptest.NewRecorder()

	h.JoinMarathon(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestPaymentHandler_Get_OtherUsersPayment(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		getFn: func(ctx context.Context, userID, id string) (*domain.PaymentRequest, error) {
			return nil, domain.ErrPaymentNotFound
		},
	}, nil, zerolog.Nop())

	req := withURLParam(withUser(httptest.NewRequest(http.MethodGet, "/payment/pay-9", nil), "user-2", domain.RoleUser), "id", "pay-9")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPaymentHandler_Webhook_PassesRawBodyAndSignature(t *testing.T) {
	const body = `{"payment_id":5745459419,"payment_status":"finished"}`
	var gotBody, gotSig string
	retrier := &countingRetrier{}

	h := NewPaymentHandler(&paymentServiceStub{
		webhookFn: func(ctx context.Context, b []byte, signature string) (*usecase.WebhookResult, error) {
			gotBody, gotSig = string(b), signature
			p := pendingPayment("pay-1")
			p.Status = domain.PaymentStatusCompleted
			p.Fulfillment = domain.FulfillmentFulfilled
			return &usecase.WebhookResult{Payment: p}, nil
		},
	}, retrier, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
	req.Header.Set(SignatureHeader, "abc123")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotBody != body || gotSig != "abc123" {
		t.Fatalf("expected raw body and signature to be forwarded, got %q %q", gotBody, gotSig)
	}
	if retrier.calls != 1 {
		t.Fatalf("expected webhook to run through the retrier, got %d calls", retrier.calls)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "COMPLETED" || resp.FulfillmentStatus != "FULFILLED" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPaymentHandler_Webhook_FulfillmentFailureAcknowledged(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		webhookFn: func(ctx context.Context, b []byte, signature string) (*usecase.WebhookResult, error) {
			p := pendingPayment("pay-1")
			p.Purpose = domain.PaymentPurposeMarathonJoin
			p.Status = domain.PaymentStatusCompleted
			p.Fulfillment = domain.FulfillmentFailed
			return &usecase.WebhookResult{Payment: p}, fmt.Errorf("enrollment failed: %w", domain.ErrCapacityExceeded)
		},
	}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Webhook(rec, httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 so the gateway stops redelivering, got %d", rec.Code)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.FulfillmentStatus != "FAILED" || resp.Status != "COMPLETED" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPaymentHandler_Webhook_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"bad signature", domain.ErrWebhookRejected, http.StatusUnauthorized},
		{"bad payload", domain.ErrInvalidWebhookPayload, http.StatusBadRequest},
		{"unknown payment", domain.ErrPaymentNotFound, http.StatusNotFound},
		{"database failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPaymentHandler(&paymentServiceStub{
				webhookFn: func(ctx context.Context, b []byte, signature string) (*usecase.WebhookResult, error) {
					return nil, tt.err
				},
			}, nil, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Webhook(rec, httptest.NewRequest(http.MethodPost, "/payment/webhook", io.NopCloser(strings.NewReader(`{}`))))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestPaymentHandler_Sync(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		syncFn: func(ctx context.Context, paymentID string) (*usecase.WebhookResult, error) {
			p := pendingPayment(paymentID)
			p.Status = domain.PaymentStatusCancelled
			return &usecase.WebhookResult{Payment: p}, nil
		},
	}, nil, zerolog.Nop())

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/payments/pay-3/sync", nil), "id", "pay-3")
	rec := httptest.NewRecorder()

	h.Sync(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PaymentID != "pay-3" || resp.Status != "CANCELLED" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPaymentHandler_Expire(t *testing.T) {
	tests := []struct {
		name     string
		expired  int
		err      error
		wantCode int
		wantBody string
	}{
		{name: "expired", expired: 3, wantCode: http.StatusOK, wantBody: `{"expired":3}`},
		{name: "none due", expired: 0, wantCode: http.StatusOK, wantBody: `{"expired":0}`},
		{name: "store failure", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotNow time.Time
			h := NewPaymentHandler(&paymentServiceStub{
				expireFn: func(ctx context.Context, now time.Time) (int, error) {
					gotNow = now
					return tt.expired, tt.err
				},
			}, nil, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Expire(rec, httptest.NewRequest(http.MethodPost, "/admin/payments/expire", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantBody != "" && strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Fatalf("unexpected body %s", rec.Body.String())
			}
			if gotNow.IsZero() || gotNow.Location() != time.UTC {
				t.Fatalf("expected a UTC cutoff, got %v", gotNow)
			}
		})
	}
}
