// Package mailer defines the email-provider abstraction used by the send
// pipeline.
//
// The pipeline only sees the Sender interface; which provider backs it is a
// wiring decision:
//
//   - resend (subpackage): delivery through the Resend API.
//   - DrySender: no delivery at all, deterministic fake receipts, used for
//     dry-run rehearsals and tests.
//
// Every Sender returns a Receipt carrying the provider message id, which the
// pipeline records in the per-run report so delivery feedback can later be
// correlated with individual sends.
//
//	sender := resend.New(resend.Config{APIKey: os.Getenv("RESEND_API_KEY")})
//	receipt, err := sender.Send(ctx, &mailer.Email{
//		To:        "user@example.com",
//		Subject:   "Hello",
//		HTML:      "<p>Hi!</p>",
//		Text:      "Hi!",
//		FromEmail: "news@example.com",
//	})
package mailer
