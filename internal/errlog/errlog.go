package errlog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/mailout/internal/notion"
)

// Providers named in error rows.
const (
	ProviderNotion   = "Notion"
	ProviderPostgres = "Postgres"
	ProviderResend   = "Resend"
	ProviderExecutor = "Executor"
	ProviderSNS      = "SNS"
)

// Pipeline stages named in error rows.
const (
	StageFetchContent = "fetch content"
	StageBuildMessage = "build message"
	StageSend         = "send"
	StageReport       = "report"
	StagePoll         = "poll"
	StageFeedback     = "feedback"
)

const titleLimit = 200

// Entry is one structured error report.
type Entry struct {
	Timestamp  time.Time
	MailoutID  string
	IsTest     bool
	Provider   string
	Stage      string
	Email      string
	Code       string
	Message    string
	RetryCount *int
}

// Sink accepts error reports.
type Sink interface {
	Log(ctx context.Context, entry Entry)
}

// PropertyNames maps entry fields to error-database property names.
type PropertyNames struct {
	Title     string `yaml:"title" env:"NOTION_ERROR_TITLE_PROP" envDefault:"Name"`
	Timestamp string `yaml:"timestamp" env:"NOTION_ERROR_TIMESTAMP_PROP" envDefault:"Timestamp"`
	MailoutID string `yaml:"mailout_id" env:"NOTION_ERROR_MAILOUT_PROP" envDefault:"Mailout ID"`
	IsTest    string `yaml:"is_test" env:"NOTION_ERROR_TEST_PROP" envDefault:"Is Test"`
	Provider  string `yaml:"provider" env:"NOTION_ERROR_PROVIDER_PROP" envDefault:"Provider"`
	Stage     string `yaml:"stage" env:"NOTION_ERROR_STAGE_PROP" envDefault:"Stage"`
	Email     string `yaml:"email" env:"NOTION_ERROR_EMAIL_PROP" envDefault:"Email"`
	Code      string `yaml:"code" env:"NOTION_ERROR_CODE_PROP" envDefault:"Error Code"`
	Message   string `yaml:"message" env:"NOTION_ERROR_MESSAGE_PROP" envDefault:"Error Message"`
	Retry     string `yaml:"retry" env:"NOTION_ERROR_RETRY_PROP" envDefault:"Retry Count"`
}

// rowCreator is the slice of the document-store client the sink needs.
type rowCreator interface {
	CreateRow(ctx context.Context, databaseID string, properties map[string]any) error
}

// NotionSink writes entries as rows of the configured errors database,
// falling back to the logger when the write fails.
type NotionSink struct {
	client     rowCreator
	log        *slog.Logger
	databaseID string
	props      PropertyNames
}

// NewNotionSink creates a sink targeting the given errors database.
func NewNotionSink(client rowCreator, databaseID string, props PropertyNames, log *slog.Logger) *NotionSink {
	return &NotionSink{client: client, log: log, databaseID: databaseID, props: props}
}

// Log writes the entry. Failures are logged and swallowed.
func (s *NotionSink) Log(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := s.client.CreateRow(ctx, s.databaseID, s.buildProperties(entry)); err != nil {
		s.log.ErrorContext(ctx, "failed to write error row",
			slog.String("error", err.Error()),
			slog.String("error_code", entry.Code),
			slog.String("error_message", entry.Message),
		)
	}
}

func (s *NotionSink) buildProperties(entry Entry) map[string]any {
	title := entry.Message
	if title == "" {
		title = entry.Code
	}
	if title == "" {
		title = "Error"
	}
	title = truncate(title, titleLimit)

	props := map[string]any{
		s.props.Title:     notion.TitleProp(title),
		s.props.Timestamp: notion.DateProp(entry.Timestamp),
		s.props.IsTest:    notion.CheckboxProp(entry.IsTest),
	}
	if entry.MailoutID != "" {
		props[s.props.MailoutID] = notion.RichTextProp(entry.MailoutID)
	}
	if entry.Provider != "" {
		props[s.props.Provider] = notion.SelectProp(entry.Provider)
	}
	if entry.Stage != "" {
		props[s.props.Stage] = notion.SelectProp(entry.Stage)
	}
	if entry.Email != "" {
		props[s.props.Email] = notion.EmailProp(entry.Email)
	}
	if entry.Code != "" {
		props[s.props.Code] = notion.RichTextProp(entry.Code)
	}
	if entry.Message != "" {
		props[s.props.Message] = notion.RichTextProp(entry.Message)
	}
	if entry.RetryCount != nil {
		props[s.props.Retry] = notion.NumberProp(float64(*entry.RetryCount))
	}

	return props
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// LogSink reports entries to the structured log only. Used when no errors
// database is configured.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Log(ctx context.Context, entry Entry) {
	s.log.ErrorContext(ctx, "pipeline error",
		slog.String("mailout_id", entry.MailoutID),
		slog.Bool("is_test", entry.IsTest),
		slog.String("provider", entry.Provider),
		slog.String("stage", entry.Stage),
		slog.String("email", entry.Email),
		slog.String("error_code", entry.Code),
		slog.String("error_message", entry.Message),
	)
}
