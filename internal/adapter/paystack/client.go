package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// ErrTransactionNotFound indicates the gateway doesn't know the reference.
var ErrTransactionNotFound = errors.New("transaction not found")

// APIError carries a rejected gateway call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("paystack: %s (status %d)", e.Message, e.StatusCode)
}

// InitializeRequest describes a charge initialization. Amount is expressed
// in minor currency units.
type InitializeRequest struct {
	Email       string
	Amount      int64
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]any
}

// Transaction is the gateway handle returned by Initialize. The caller
// redirects the customer to AuthorizationURL to complete payment.
type Transaction struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// TransactionStatus is the verification view of a transaction.
type TransactionStatus struct {
	Status          string
	Reference       string
	Amount          int64
	Currency        string
	GatewayResponse string
	PaidAt          string
}

// Client exposes the charge initialization and verification calls consumed
// by the order workflow and the payment verifier.
type Client interface {
	Initialize(ctx context.Context, req InitializeRequest) (*Transaction, error)
	Verify(ctx context.Context, reference string) (*TransactionStatus, error)
}

// HTTPClient implements Client against the gateway REST API.
type HTTPClient struct {
	baseURL    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope mirrors the gateway's response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
}

// NewHTTPClient creates HTTP gateway client with default timeout.
func NewHTTPClient(baseURL, secretKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL:   parsed,
		secretKey: secretKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Initialize creates a pending transaction for the given amount. The charge
// is not captured here; the gateway confirms completion via webhook.
func (c *HTTPClient) Initialize(ctx context.Context, req InitializeRequest) (*Transaction, error) {
	payload := map[string]any{
		"email":     req.Email,
		"amount":    req.Amount,
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	env, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return &Transaction{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the current transaction state for a reference. Used as an
// out-of-band fallback when the webhook never arrives.
func (c *HTTPClient) Verify(ctx context.Context, reference string) (*TransactionStatus, error) {
	env, err := c.do(ctx, http.MethodGet, path.Join("/transaction/verify", url.PathEscape(reference)), nil)
	if err != nil {
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return &TransactionStatus{
		Status:          data.Status,
		Reference:       data.Reference,
		Amount:          data.Amount,
		Currency:        data.Currency,
		GatewayResponse: data.GatewayResponse,
		PaidAt:          data.PaidAt,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpointPath string, body []byte) (*envelope, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTransactionNotFound
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Error("gateway returned malformed body", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		c.logger.Error("gateway request failed", slog.Int("status", resp.StatusCode), slog.String("message", env.Message))
		return nil, APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}
