// Package feedback handles delivery-feedback notifications (bounce,
// complaint, delivery) pushed by the provider's pub/sub service and maps
// them to subscriber suppression transitions.
//
// Envelope signatures are verified against the declared signing
// certificate, but only after the certificate URL passes a hard-coded
// trusted-origin check. An attacker-supplied certificate location is
// rejected before any network fetch happens.
package feedback
