package notion_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/internal/notion"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	body := []byte(`{"mailout_id":"abc"}`)
	secret := "webhook-secret"

	t.Run("valid with prefix", func(t *testing.T) {
		t.Parallel()

		require.True(t, notion.VerifySignature(body, "sha256="+sign(body, secret), secret))
	})

	t.Run("valid without prefix", func(t *testing.T) {
		t.Parallel()

		require.True(t, notion.VerifySignature(body, sign(body, secret), secret))
	})

	t.Run("tampered body", func(t *testing.T) {
		t.Parallel()

		require.False(t, notion.VerifySignature([]byte(`{"mailout_id":"xyz"}`), "sha256="+sign(body, secret), secret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		require.False(t, notion.VerifySignature(body, "sha256="+sign(body, "other"), secret))
	})

	t.Run("missing inputs", func(t *testing.T) {
		t.Parallel()

		require.False(t, notion.VerifySignature(nil, "sha256=abc", secret))
		require.False(t, notion.VerifySignature(body, "", secret))
		require.False(t, notion.VerifySignature(body, "sha256=abc", ""))
	})

	t.Run("wrong length digest", func(t *testing.T) {
		t.Parallel()

		require.False(t, notion.VerifySignature(body, "sha256=deadbeef", secret))
	})
}
