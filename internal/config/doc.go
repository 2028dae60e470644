// Package config aggregates the executor's runtime configuration from the
// environment. Every collaborator package contributes its own env-tagged
// struct; this package composes them, adds the send-time settings, and
// resolves the optional YAML property-name override for the document store.
//
// Missing collaborator configuration is not an error here. The executor
// starts with whatever is present and reports the gaps through /health and
// per-request 500s, which keeps a misconfigured deployment diagnosable.
package config
