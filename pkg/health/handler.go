package health

import (
	"encoding/json"
	"net/http"
)

// Handler returns the /health endpoint. It always answers 200 with a JSON
// Report: the process staying diagnosable is the whole point, so collaborator
// problems lower booleans in the payload instead of failing the request.
func Handler(checks Checks, dryRun bool, opts ...Option) http.HandlerFunc {
	cfg := &config{timeout: defaultTimeout, logger: discardLogger()}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		report := run(r.Context(), checks, dryRun, cfg)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(report)
	}
}
