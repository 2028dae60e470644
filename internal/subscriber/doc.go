// Package subscriber owns the relational subscriber store and the recipient
// resolver that turns raw records into the final, deterministic send list.
//
// Suppression is modeled as upserts: a bounce or complaint for an address
// not yet in the table still creates a row, so the address stays excluded
// from future sends.
package subscriber
