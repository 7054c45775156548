package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks the HMAC the gateway attaches to payment callbacks.
// It is the single trust boundary of the whole engine: everything after a
// successful Verify treats the callback parameters as authentic.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes HMAC-SHA256(secret, orderID+"|"+paymentID) and compares
// it to the hex-encoded signature in constant time.
func (v *Verifier) Verify(orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(v.Sign(orderID, paymentID)), []byte(signature))
}

// Sign produces the expected hex digest for an order/payment pair.
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
