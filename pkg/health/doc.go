// Package health reports the readiness of the executor's collaborators
// (document store, relational store, email provider) without ever failing
// the request itself.
//
// Missing credentials are a call-time concern in this service: the process
// boots regardless so operators can hit /health and see exactly which
// collaborator is unconfigured or unreachable, and whether dry mode is on.
//
//	mux.Get("/health", health.Handler(health.Checks{
//		"notion":   notionCheck,
//		"database": db.Healthcheck(pool),
//		"provider": nil, // not configured
//	}, cfg.DryRun))
package health
