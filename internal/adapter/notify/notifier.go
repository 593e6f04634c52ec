package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// EmailMessage is one outbound email.
type EmailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// SMSMessage is one outbound text message.
type SMSMessage struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id,omitempty"`
}

// Sender dispatches customer notifications. Senders are best-effort from
// the core workflow's perspective: callers log failures and move on.
type Sender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	SendSMS(ctx context.Context, msg SMSMessage) error
}

// HTTPSender talks to the notification provider's REST API.
type HTTPSender struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSender creates provider client with default timeout.
func NewHTTPSender(baseURL, apiKey string, logger *slog.Logger) (*HTTPSender, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	return &HTTPSender{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SendEmail posts the message to the provider's email endpoint.
func (s *HTTPSender) SendEmail(ctx context.Context, msg EmailMessage) error {
	return s.post(ctx, "/email", msg)
}

// SendSMS posts the message to the provider's sms endpoint.
func (s *HTTPSender) SendSMS(ctx context.Context, msg SMSMessage) error {
	return s.post(ctx, "/sms", msg)
}

func (s *HTTPSender) post(ctx context.Context, endpointPath string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := *s.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		s.logger.Error("notification provider rejected message", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return fmt.Errorf("notify error: %s", resp.Status)
	}
	return nil
}

// NoopSender drops notifications. Used when no provider is configured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) SendEmail(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("email notification dropped, no provider configured", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}

func (s *NoopSender) SendSMS(ctx context.Context, msg SMSMessage) error {
	s.logger.Info("sms notification dropped, no provider configured", slog.String("to", msg.To))
	return nil
}
