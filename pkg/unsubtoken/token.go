package unsubtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Create builds a stateless unsubscribe token for email:
// base64url(lowercased email) + "." + base64url(HMAC-SHA256(payload, secret)).
// Tokens have no expiry; integrity comes from the signature alone.
func Create(email, secret string) (string, error) {
	if email == "" {
		return "", ErrEmptyEmail
	}
	if secret == "" {
		return "", ErrEmptySecret
	}

	payload := base64.RawURLEncoding.EncodeToString([]byte(strings.ToLower(email)))
	return payload + "." + sign(payload, secret), nil
}

// Verify checks token integrity and returns the embedded email address.
// It rejects tokens that are not exactly two dot-separated parts, carry a
// signature of the wrong length, fail the constant-time signature comparison,
// do not decode as base64url, or decode to an empty email.
func Verify(token, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	payload, sig, found := strings.Cut(token, ".")
	if !found || strings.Contains(sig, ".") {
		return "", ErrMalformedToken
	}

	expected := sign(payload, secret)
	if len(sig) != len(expected) {
		return "", ErrBadSignature
	}
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrBadSignature
	}

	email, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrMalformedToken
	}
	if len(email) == 0 {
		return "", ErrEmptyEmail
	}
	return string(email), nil
}

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
