// Package unsubtoken signs and verifies the compact tokens embedded in the
// unsubscribe links of every outgoing email.
//
// A token binds exactly one lowercased email address:
//
//	token := payload + "." + sig
//	payload = base64url(email)
//	sig     = base64url(HMAC-SHA256(payload, secret))
//
// Verification compares signatures in constant time to resist timing attacks.
// Tokens are stateless and never expire; revoking them means rotating the
// secret.
package unsubtoken
