package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Verifier checks webhook payload authenticity. The gateway signs every
// callback with HMAC-SHA512 over the raw JSON body using the shared secret
// and sends the hex digest in a header.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier for the shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the hex encoded HMAC-SHA512 digest of body.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig matches the digest of body. The comparison is
// constant time.
func (v *Verifier) Verify(body []byte, sig string) bool {
	return hmac.Equal([]byte(v.Sign(body)), []byte(sig))
}
