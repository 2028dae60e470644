package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

// CheckFunc probes one collaborator. A nil error means the collaborator is
// configured and reachable.
type CheckFunc func(ctx context.Context) error

// Checks maps collaborator names to their probes. A nil CheckFunc marks a
// collaborator as not configured, which is reported as false without being
// treated as a failure.
type Checks map[string]CheckFunc

// Report is the health endpoint payload. The endpoint itself always answers
// 200; missing collaborator configuration shows up as a false boolean, not
// as a failed request. OK is true only when every collaborator is healthy.
type Report struct {
	Collaborators map[string]bool `json:"collaborators"`
	OK            bool            `json:"ok"`
	DryRun        bool            `json:"dry_run"`
}

// config holds probe execution settings.
type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures probe behavior.
type Option func(*config)

// WithTimeout bounds the total probe time. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for failed probes.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// run executes all probes in parallel and aggregates the report.
func run(ctx context.Context, checks Checks, dryRun bool, cfg *config) *Report {
	report := &Report{
		Collaborators: make(map[string]bool, len(checks)),
		OK:            true,
		DryRun:        dryRun,
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for name, check := range checks {
		if check == nil {
			report.Collaborators[name] = false
			continue
		}

		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			err := check(ctx)
			if err != nil {
				cfg.logger.WarnContext(ctx, "collaborator probe failed",
					slog.String("collaborator", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			report.Collaborators[name] = err == nil
			mu.Unlock()
		}(name, check)
	}

	wg.Wait()

	for _, ok := range report.Collaborators {
		if !ok {
			report.OK = false
			break
		}
	}

	return report
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
