package mailer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/pkg/mailer"
)

func validEmail() *mailer.Email {
	return &mailer.Email{
		To:        "user@example.com",
		Subject:   "Hello",
		HTML:      "<p>Hi</p>",
		Text:      "Hi",
		FromEmail: "news@example.com",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, mailer.Validate(validEmail()))
	})

	t.Run("missing recipient", func(t *testing.T) {
		t.Parallel()
		e := validEmail()
		e.To = ""
		require.ErrorIs(t, mailer.Validate(e), mailer.ErrNoRecipient)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		e := validEmail()
		e.Subject = ""
		require.ErrorIs(t, mailer.Validate(e), mailer.ErrNoSubject)
	})

	t.Run("missing both bodies", func(t *testing.T) {
		t.Parallel()
		e := validEmail()
		e.HTML, e.Text = "", ""
		require.ErrorIs(t, mailer.Validate(e), mailer.ErrNoContent)
	})

	t.Run("text-only body is fine", func(t *testing.T) {
		t.Parallel()
		e := validEmail()
		e.HTML = ""
		require.NoError(t, mailer.Validate(e))
	})

	t.Run("missing sender", func(t *testing.T) {
		t.Parallel()
		e := validEmail()
		e.FromEmail = ""
		require.ErrorIs(t, mailer.Validate(e), mailer.ErrNoSender)
	})
}

func TestFormatAddress(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Ann <ann@example.com>", mailer.FormatAddress("Ann", "ann@example.com"))
	require.Equal(t, "ann@example.com", mailer.FormatAddress("", "ann@example.com"))
}

func TestDrySender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dry := mailer.NewDry()

	r1, err := dry.Send(ctx, validEmail())
	require.NoError(t, err)
	require.NotEmpty(t, r1.MessageID)
	require.Contains(t, r1.MessageID, "simulated-")

	// Deterministic: same recipient, same fake id.
	r2, err := dry.Send(ctx, validEmail())
	require.NoError(t, err)
	require.Equal(t, r1.MessageID, r2.MessageID)

	// Different recipient, different id.
	other := validEmail()
	other.To = "other@example.com"
	r3, err := dry.Send(ctx, other)
	require.NoError(t, err)
	require.NotEqual(t, r1.MessageID, r3.MessageID)

	// Dry sends still validate.
	bad := validEmail()
	bad.Subject = ""
	_, err = dry.Send(ctx, bad)
	require.ErrorIs(t, err, mailer.ErrNoSubject)
}
