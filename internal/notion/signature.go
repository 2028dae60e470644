package notion

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the webhook signature header against an HMAC-SHA256
// of the raw request body. The header carries "sha256=<hex>"; a bare hex
// digest is accepted too. Comparison is constant time.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	if secret == "" || signatureHeader == "" || len(rawBody) == 0 {
		return false
	}

	sig := strings.TrimPrefix(signatureHeader, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(sig) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1
}
