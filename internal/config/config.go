package config

import (
	"errors"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/mailout/internal/api"
	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/notion"
	"github.com/dmitrymomot/mailout/internal/pipeline"
	"github.com/dmitrymomot/mailout/internal/poller"
	"github.com/dmitrymomot/mailout/pkg/db"
	"github.com/dmitrymomot/mailout/pkg/logger"
	"github.com/dmitrymomot/mailout/pkg/mailer/resend"
	"github.com/dmitrymomot/mailout/pkg/redis"
	"github.com/dmitrymomot/mailout/pkg/storage"
)

var (
	ErrParseFailed     = errors.New("config: failed to parse environment")
	ErrPropsFileFailed = errors.New("config: failed to load property override file")
)

// Config is the executor's full runtime configuration.
type Config struct {
	Port       int    `env:"PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	Notion   NotionConfig
	Send     SendConfig
	Footer   FooterConfig
	Feedback FeedbackConfig

	HTTP    api.Config
	Poller  poller.Config
	DB      db.Config
	Redis   redis.Config
	Storage storage.Config
	Resend  resend.Config
	Sentry  logger.SentryConfig
}

// NotionConfig covers the document-store collaborator.
type NotionConfig struct {
	Token      string `env:"NOTION_API_TOKEN"`
	MailoutsDB string `env:"NOTION_DB_MAILOUTS_ID"`
	ErrorsDB   string `env:"NOTION_DB_ERRORS_ID"`

	StatusSentValue   string `env:"NOTION_STATUS_SENT_VALUE" envDefault:"Send"`
	StatusFailedValue string `env:"NOTION_STATUS_FAILED_VALUE" envDefault:"Failed"`

	// PropsFile optionally points at a YAML file overriding the property
	// names below; env vars still win for values the file does not set.
	PropsFile string `env:"NOTION_PROPS_FILE"`

	Props      notion.PropertyMap
	ErrorProps errlog.PropertyNames
}

// Configured reports whether the document-store client can be constructed.
func (c NotionConfig) Configured() bool {
	return c.Token != ""
}

// SendConfig covers the outbound send settings.
type SendConfig struct {
	FromEmail string `env:"FROM_EMAIL"`
	FromName  string `env:"FROM_NAME"`
	ReplyTo   string `env:"REPLY_TO_EMAIL"`

	RateLimitPerSec float64 `env:"RATE_LIMIT_PER_SEC" envDefault:"5"`
	BatchSize       int     `env:"BATCH_SIZE" envDefault:"50"`

	DryRun bool `env:"DRY_RUN_SEND" envDefault:"false"`

	TestEmailsRaw string `env:"TEST_EMAILS"`

	ReportDir string `env:"REPORT_OUTPUT_DIR" envDefault:"out"`
}

// testEmailSeparators matches the delimiters operators paste between
// addresses: commas, semicolons, or any whitespace.
var testEmailSeparators = regexp.MustCompile(`[,;\s]+`)

// TestEmails parses the raw list into trimmed lowercase addresses.
func (c SendConfig) TestEmails() []string {
	if strings.TrimSpace(c.TestEmailsRaw) == "" {
		return nil
	}

	parts := testEmailSeparators.Split(c.TestEmailsRaw, -1)
	emails := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			emails = append(emails, part)
		}
	}
	return emails
}

// FooterConfig covers the per-recipient footer.
type FooterConfig struct {
	OrgName            string `env:"ORG_NAME"`
	OrgAddress         string `env:"ORG_ADDRESS"`
	UnsubscribeBaseURL string `env:"UNSUBSCRIBE_BASE_URL"`
	UnsubscribeSecret  string `env:"UNSUBSCRIBE_SECRET"`

	CustomHTML     string `env:"FOOTER_HTML"`
	CustomText     string `env:"FOOTER_TEXT"`
	CustomMarkdown string `env:"FOOTER_MARKDOWN"`
}

// FeedbackConfig covers the delivery-feedback webhook.
type FeedbackConfig struct {
	AllowedTopicARNsRaw string `env:"SNS_ALLOWED_TOPIC_ARNS"`
}

// AllowedTopicARNs parses the comma-separated allowlist.
func (c FeedbackConfig) AllowedTopicARNs() []string {
	if strings.TrimSpace(c.AllowedTopicARNsRaw) == "" {
		return nil
	}

	parts := strings.Split(c.AllowedTopicARNsRaw, ",")
	arns := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			arns = append(arns, part)
		}
	}
	return arns
}

// Load parses the environment and resolves derived values.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}

	if cfg.Footer.UnsubscribeBaseURL == "" {
		cfg.Footer.UnsubscribeBaseURL = strings.TrimRight(cfg.AppBaseURL, "/") + "/unsubscribe"
	}

	if cfg.Notion.PropsFile != "" {
		if err := cfg.applyPropsFile(); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// propsFile is the YAML override shape. Keys the file omits keep their
// env-resolved values.
type propsFile struct {
	Mailout notion.PropertyMap   `yaml:"mailout"`
	Errors  errlog.PropertyNames `yaml:"errors"`
}

func (c *Config) applyPropsFile() error {
	data, err := os.ReadFile(c.Notion.PropsFile)
	if err != nil {
		return errors.Join(ErrPropsFileFailed, err)
	}

	override := propsFile{Mailout: c.Notion.Props, Errors: c.Notion.ErrorProps}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return errors.Join(ErrPropsFileFailed, err)
	}

	c.Notion.Props = override.Mailout
	c.Notion.ErrorProps = override.Errors
	return nil
}

// Level translates the configured log level name.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PipelineConfig assembles the orchestrator settings.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		FromEmail:         c.Send.FromEmail,
		FromName:          c.Send.FromName,
		ReplyTo:           c.Send.ReplyTo,
		RateLimitPerSec:   c.Send.RateLimitPerSec,
		BatchSize:         c.Send.BatchSize,
		TestEmails:        c.Send.TestEmails(),
		DryRun:            c.Send.DryRun,
		ReportDir:         c.Send.ReportDir,
		StatusSentValue:   c.Notion.StatusSentValue,
		StatusFailedValue: c.Notion.StatusFailedValue,
		Props:             c.Notion.Props,
		Footer: pipeline.FooterConfig{
			OrgName:            c.Footer.OrgName,
			OrgAddress:         c.Footer.OrgAddress,
			UnsubscribeBaseURL: c.Footer.UnsubscribeBaseURL,
			UnsubscribeSecret:  c.Footer.UnsubscribeSecret,
			CustomHTML:         c.Footer.CustomHTML,
			CustomText:         c.Footer.CustomText,
			CustomMarkdown:     c.Footer.CustomMarkdown,
		},
	}
}
