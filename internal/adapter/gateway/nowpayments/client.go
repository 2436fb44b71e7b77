package nowpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// Config configures the gateway client.
type Config struct {
	BaseURL        string
	APIKey         string
	IPNSecret      string
	Timeout        time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// Client talks to the NOWPayments REST API and implements usecase.PaymentGateway.
type Client struct {
	cfg        Config
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient creates a gateway client. metrics may be nil.
func NewClient(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 2 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    m,
		logger:     logger.With().Str("component", "nowpayments").Logger(),
	}
}

type createPaymentRequest struct {
	PriceAmount      decimal.Decimal `json:"price_amount"`
	PriceCurrency    string          `json:"price_currency"`
	PayCurrency      string          `json:"pay_currency"`
	OrderID          string          `json:"order_id"`
	OrderDescription string          `json:"order_description,omitempty"`
	IPNCallbackURL   string          `json:"ipn_callback_url,omitempty"`
}

type paymentResponse struct {
	PaymentID     flexibleID      `json:"payment_id"`
	PaymentStatus string          `json:"payment_status"`
	PayAddress    string          `json:"pay_address"`
	PayAmount     decimal.Decimal `json:"pay_amount"`
	PayCurrency   string          `json:"pay_currency"`
	Network       string          `json:"network"`
}

// flexibleID accepts payment ids sent either as JSON numbers or strings.
type flexibleID string

// A JSON null leaves the id empty; any other token is an error.
func (f *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("payment id must be a string or number, got %s", truncate(trimmed, 32))
	}
	*f = flexibleID(n.String())
	return nil
}

// CreateInvoice opens a payment for req.AmountUSD payable in req.PayCurrency.
func (c *Client) CreateInvoice(ctx context.Context, req usecase.InvoiceRequest) (*usecase.GatewayQuote, error) {
	body, err := json.Marshal(createPaymentRequest{
		PriceAmount:      req.AmountUSD,
		PriceCurrency:    "usd",
		PayCurrency:      req.PayCurrency,
		OrderID:          req.OrderID,
		OrderDescription: req.Description,
		IPNCallbackURL:   req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice request: %w", err)
	}

	var resp paymentResponse
	if err := c.do(ctx, "create_invoice", http.MethodPost, "/payment", body, &resp); err != nil {
		return nil, err
	}

	if resp.PaymentID == "" || resp.PayAddress == "" {
		return nil, fmt.Errorf("%w: invoice response missing payment_id or pay_address", domain.ErrGatewayRejected)
	}

	network := resp.Network
	if network == "" {
		network = resp.PayCurrency
	}

	payCurrency := resp.PayCurrency
	if payCurrency == "" {
		payCurrency = req.PayCurrency
	}

	c.logger.Info().
		Str("order_id", req.OrderID).
		Str("external_id", string(resp.PaymentID)).
		Str("pay_currency", payCurrency).
		Msg("invoice created")

	return &usecase.GatewayQuote{
		ExternalID:  string(resp.PaymentID),
		PayAddress:  resp.PayAddress,
		PayAmount:   resp.PayAmount,
		PayCurrency: payCurrency,
		Network:     network,
	}, nil
}

// GetStatus fetches the current gateway status of a payment.
func (c *Client) GetStatus(ctx context.Context, externalID string) (*usecase.GatewayStatus, error) {
	var resp paymentResponse
	if err := c.do(ctx, "get_status", http.MethodGet, "/payment/"+url.PathEscape(externalID), nil, &resp); err != nil {
		return nil, err
	}

	id := string(resp.PaymentID)
	if id == "" {
		id = externalID
	}

	return &usecase.GatewayStatus{
		ExternalID: id,
		Status:     resp.PaymentStatus,
		Mapped:     MapStatus(resp.PaymentStatus),
	}, nil
}

// VerifyCallbackSignature checks an IPN signature with the configured secret.
func (c *Client) VerifyCallbackSignature(payload map[string]any, signature string) bool {
	return VerifySignature(payload, signature, c.cfg.IPNSecret)
}

// MapStatus implements usecase.PaymentGateway.
func (c *Client) MapStatus(raw string) domain.PaymentStatus {
	return MapStatus(raw)
}

// do sends one logical request, retrying transport errors, 429 and 5xx with
// exponential backoff. The X-Request-Id stays the same across attempts.
func (c *Client) do(ctx context.Context, operation, method, path string, body []byte, out any) error {
	requestID := uuid.NewString()
	logger := c.logger.With().Str("operation", operation).Str("request_id", requestID).Logger()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryBaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.cfg.RetryBaseDelay << uint(c.cfg.MaxAttempts)
	b.MaxElapsedTime = 0

	attempt := 0

	err := backoff.Retry(func() error {
		attempt++

		respBody, status, err := c.send(ctx, method, path, body, requestID)
		switch {
		case err != nil:
			logger.Warn().Err(err).Int("attempt", attempt).Msg("gateway request failed")
			c.record(operation, "transport_error")
			return err

		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			logger.Warn().Int("status", status).Int("attempt", attempt).Msg("gateway unavailable")
			c.record(operation, "retryable")
			return fmt.Errorf("gateway returned status %d", status)

		case status >= http.StatusBadRequest:
			c.record(operation, "rejected")
			logger.Error().Int("status", status).Str("response", truncate(respBody, 512)).Msg("gateway rejected request")
			return backoff.Permanent(fmt.Errorf("%w: status %d: %s", domain.ErrGatewayRejected, status, truncate(respBody, 256)))
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			c.record(operation, "bad_response")
			return backoff.Permanent(fmt.Errorf("%w: undecodable response: %v", domain.ErrGatewayRejected, err))
		}

		c.record(operation, "ok")
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxAttempts-1)), ctx))

	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrGatewayRejected) {
		return err
	}

	return fmt.Errorf("%w: %s after %d attempts: %v", domain.ErrGatewayUnavailable, operation, attempt, err)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, requestID string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, 0, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, err
	}

	return respBody, resp.StatusCode, nil
}

func (c *Client) record(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.GatewayRequests.WithLabelValues(operation, outcome).Inc()
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
