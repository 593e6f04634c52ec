package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPSenderValidatesURL(t *testing.T) {
	if _, err := NewHTTPSender("://bad", "key", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPSender("/relative", "key", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestSendEmail(t *testing.T) {
	var received EmailMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender, err := NewHTTPSender(server.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("create sender: %v", err)
	}

	msg := EmailMessage{From: "orders@shop.test", To: "a@b.com", Subject: "Payment received", Text: "thanks"}
	if err := sender.SendEmail(context.Background(), msg); err != nil {
		t.Fatalf("send email: %v", err)
	}
	if received.To != "a@b.com" || received.Subject != "Payment received" {
		t.Fatalf("unexpected message %+v", received)
	}
}

func TestSendSMSProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sms" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender, err := NewHTTPSender(server.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("create sender: %v", err)
	}

	if err := sender.SendSMS(context.Background(), SMSMessage{To: "+2348000000000", Message: "hi"}); err == nil {
		t.Fatal("expected error for provider rejection")
	}
}

func TestNoopSender(t *testing.T) {
	sender := NewNoopSender(testLogger())
	if err := sender.SendEmail(context.Background(), EmailMessage{To: "a@b.com"}); err != nil {
		t.Fatalf("noop email: %v", err)
	}
	if err := sender.SendSMS(context.Background(), SMSMessage{To: "+1"}); err != nil {
		t.Fatalf("noop sms: %v", err)
	}
}
