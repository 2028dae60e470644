package pipeline

import (
	"math"
	"time"

	"github.com/dmitrymomot/mailout/internal/notion"
)

// Config carries the send-time settings of the orchestrator.
type Config struct {
	FromEmail string
	FromName  string
	ReplyTo   string

	RateLimitPerSec float64
	BatchSize       int

	TestEmails []string
	DryRun     bool

	ReportDir string

	StatusSentValue   string
	StatusFailedValue string

	Props  notion.PropertyMap
	Footer FooterConfig
}

// FooterConfig configures the per-recipient footer. The compliance block
// fields are mandatory; the custom footer is optional and always precedes
// the compliance block, never replaces it.
type FooterConfig struct {
	OrgName            string
	OrgAddress         string
	UnsubscribeBaseURL string
	UnsubscribeSecret  string

	CustomHTML     string
	CustomText     string
	CustomMarkdown string
}

// Configured reports whether the mandatory compliance fields are present.
func (c FooterConfig) Configured() bool {
	return c.OrgName != "" && c.OrgAddress != "" &&
		c.UnsubscribeBaseURL != "" && c.UnsubscribeSecret != ""
}

// pacingInterval is the mandatory post-send delay giving a hard ceiling on
// outbound throughput: ceil(1000 / rate) milliseconds, rate floored at 1/s.
func (c Config) pacingInterval() time.Duration {
	rate := math.Max(1, c.RateLimitPerSec)
	return time.Duration(math.Ceil(1000/rate)) * time.Millisecond
}

func (c Config) batchSize() int {
	if c.BatchSize < 1 {
		return 50
	}
	return c.BatchSize
}
