package feedback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/internal/feedback"
)

func TestVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid v1 signature", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		env := notificationEnvelope(t, authority, `{"notificationType":"Delivery"}`)
		require.NoError(t, verifier.Verify(ctx, env))
	})

	t.Run("valid v2 signature", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		env := notificationEnvelope(t, authority, `{"notificationType":"Delivery"}`)
		env.SignatureVersion = "2"
		authority.sign(t, env)

		require.NoError(t, verifier.Verify(ctx, env))
	})

	t.Run("subject participates in the signed payload", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		env := notificationEnvelope(t, authority, `{}`)
		env.Subject = "Amazon SES Email Event"
		authority.sign(t, env)

		require.NoError(t, verifier.Verify(ctx, env))
	})

	t.Run("tampered message fails", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		env := notificationEnvelope(t, authority, `{"notificationType":"Delivery"}`)
		env.Message = `{"notificationType":"Bounce"}`

		require.ErrorIs(t, verifier.Verify(ctx, env), feedback.ErrInvalidSignature)
	})

	t.Run("untrusted cert URL rejected without any fetch", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		untrusted := []string{
			"https://evil.example.com/cert.pem",
			"http://sns.us-east-1.amazonaws.com/SimpleNotificationService-test.pem",
			"https://sns.us-east-1.amazonaws.com/other.pem",
			"https://sns.us-east-1.amazonaws.com/SimpleNotificationService-test.txt",
			"https://sns.us-east-1.amazonaws.com.evil.com/SimpleNotificationService-test.pem",
		}

		for _, certURL := range untrusted {
			env := notificationEnvelope(t, authority, `{}`)
			env.SigningCertURL = certURL
			require.ErrorIs(t, verifier.Verify(ctx, env), feedback.ErrUntrustedURL, certURL)
		}

		require.Empty(t, transport.requests())
	})

	t.Run("missing signature fields", func(t *testing.T) {
		t.Parallel()

		verifier := feedback.NewVerifier()
		require.ErrorIs(t, verifier.Verify(ctx, nil), feedback.ErrInvalidSignature)
		require.ErrorIs(t, verifier.Verify(ctx, &feedback.Envelope{Signature: "x"}), feedback.ErrInvalidSignature)
		require.ErrorIs(t, verifier.Verify(ctx, &feedback.Envelope{SigningCertURL: testCertURL}), feedback.ErrInvalidSignature)
	})

	t.Run("unknown envelope type", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		env := notificationEnvelope(t, authority, `{}`)
		env.Type = "Mystery"

		require.ErrorIs(t, verifier.Verify(ctx, env), feedback.ErrUnsupportedType)
	})

	t.Run("certificate is fetched once across verifications", func(t *testing.T) {
		t.Parallel()

		authority := newSigningAuthority(t)
		transport := newFakeTransport()
		verifier := newVerifier(authority, transport)

		for range 3 {
			env := notificationEnvelope(t, authority, `{"notificationType":"Delivery"}`)
			require.NoError(t, verifier.Verify(ctx, env))
		}

		require.Len(t, transport.requests(), 1)
	})
}

func TestConfirmSubscription(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("untrusted subscribe URL rejected without fetch", func(t *testing.T) {
		t.Parallel()

		transport := newFakeTransport()
		verifier := feedback.NewVerifier(feedback.WithHTTPClient(newClient(transport)))

		env := &feedback.Envelope{SubscribeURL: "https://evil.example.com/confirm"}
		require.ErrorIs(t, verifier.ConfirmSubscription(ctx, env), feedback.ErrUntrustedURL)
		require.Empty(t, transport.requests())
	})

	t.Run("trusted subscribe URL is followed", func(t *testing.T) {
		t.Parallel()

		transport := newFakeTransport()
		confirmURL := "https://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription"
		transport.serve(confirmURL, []byte("ok"))
		verifier := feedback.NewVerifier(feedback.WithHTTPClient(newClient(transport)))

		env := &feedback.Envelope{SubscribeURL: confirmURL}
		require.NoError(t, verifier.ConfirmSubscription(ctx, env))
		require.Equal(t, []string{confirmURL}, transport.requests())
	})

	t.Run("missing subscribe URL", func(t *testing.T) {
		t.Parallel()

		verifier := feedback.NewVerifier()
		require.ErrorIs(t, verifier.ConfirmSubscription(ctx, &feedback.Envelope{}), feedback.ErrConfirmFailed)
	})
}
