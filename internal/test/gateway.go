package test

import (
	"context"

	"github.com/osoko/commerce/internal/adapter/notify"
	"github.com/osoko/commerce/internal/adapter/paystack"
)

// GatewayStub simulates the payment gateway client.
type GatewayStub struct {
	InitializeFn func(context.Context, paystack.InitializeRequest) (*paystack.Transaction, error)
	VerifyFn     func(context.Context, string) (*paystack.TransactionStatus, error)
	Initialized  []paystack.InitializeRequest
	Verified     []string
}

// Initialize records the request and returns the configured transaction.
func (s *GatewayStub) Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.Transaction, error) {
	s.Initialized = append(s.Initialized, req)
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, req)
	}
	return &paystack.Transaction{
		AuthorizationURL: "https://checkout.example/" + req.Reference,
		AccessCode:       "access_" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

// Verify records the reference and returns the configured status.
func (s *GatewayStub) Verify(ctx context.Context, reference string) (*paystack.TransactionStatus, error) {
	s.Verified = append(s.Verified, reference)
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &paystack.TransactionStatus{Status: "success", Reference: reference}, nil
}

// SenderStub records notification deliveries.
type SenderStub struct {
	EmailFn func(context.Context, notify.EmailMessage) error
	SMSFn   func(context.Context, notify.SMSMessage) error
	Emails  []notify.EmailMessage
	SMS     []notify.SMSMessage
}

// SendEmail records the message or delegates to the override.
func (s *SenderStub) SendEmail(ctx context.Context, msg notify.EmailMessage) error {
	if s.EmailFn != nil {
		return s.EmailFn(ctx, msg)
	}
	s.Emails = append(s.Emails, msg)
	return nil
}

// SendSMS records the message or delegates to the override.
func (s *SenderStub) SendSMS(ctx context.Context, msg notify.SMSMessage) error {
	if s.SMSFn != nil {
		return s.SMSFn(ctx, msg)
	}
	s.SMS = append(s.SMS, msg)
	return nil
}
