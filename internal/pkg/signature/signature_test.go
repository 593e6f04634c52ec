package signature

import "testing"

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("shared-secret")
	body := []byte(`{"event":"charge.success","data":{"reference":"ORD-1-001"}}`)

	sig := v.Sign(body)
	if sig == "" {
		t.Fatal("expected non-empty signature")
	}
	if len(sig) != 128 {
		t.Fatalf("expected 128 hex characters for sha512, got %d", len(sig))
	}
	if !v.Verify(body, sig) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifierRejectsTamperedBody(t *testing.T) {
	v := NewVerifier("shared-secret")
	sig := v.Sign([]byte(`{"amount":21500}`))
	if v.Verify([]byte(`{"amount":99999}`), sig) {
		t.Fatal("expected tampered body to fail verification")
	}
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	sig := NewVerifier("secret-a").Sign(body)
	if NewVerifier("secret-b").Verify(body, sig) {
		t.Fatal("expected signature from another secret to fail")
	}
}
