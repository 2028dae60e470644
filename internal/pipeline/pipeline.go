package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/notion"
	"github.com/dmitrymomot/mailout/internal/render"
	"github.com/dmitrymomot/mailout/internal/report"
	"github.com/dmitrymomot/mailout/internal/subscriber"
	"github.com/dmitrymomot/mailout/pkg/locker"
	"github.com/dmitrymomot/mailout/pkg/mailer"
	"github.com/dmitrymomot/mailout/pkg/placeholder"
)

// DocumentStore is the slice of the document-store client the pipeline
// consumes.
type DocumentStore interface {
	GetPage(ctx context.Context, id string) (*notion.Page, error)
	GetPageContent(ctx context.Context, id string) ([]notion.Block, error)
	UpdateProperties(ctx context.Context, id string, properties map[string]any) error
}

// SubscriberSource yields the production recipient list.
type SubscriberSource interface {
	FetchActive(ctx context.Context) ([]subscriber.Recipient, error)
}

// Deps are the orchestrator's collaborators. Docs, Subscribers or Sender may
// be nil when unconfigured; Run reports that per call instead of failing at
// startup.
type Deps struct {
	Docs        DocumentStore
	Subscribers SubscriberSource
	Sender      mailer.Sender
	Lock        locker.Locker
	Sink        errlog.Sink
	Uploader    report.Uploader
	Log         *slog.Logger
}

// Result summarizes one completed run.
type Result struct {
	MailoutID  string
	Sent       int
	Failed     int
	DryRun     bool
	ReportPath string
	ReportURL  string
}

// Pipeline executes the send state machine.
type Pipeline struct {
	deps  Deps
	cfg   Config
	sleep func(context.Context, time.Duration)
	now   func() time.Time
}

// Option overrides pipeline internals.
type Option func(*Pipeline)

// WithSleep replaces the pacing wait. Tests inject a recorder here.
func WithSleep(fn func(context.Context, time.Duration)) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// WithNow replaces the clock.
func WithNow(fn func() time.Time) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.now = fn
		}
	}
}

// New wires a Pipeline.
func New(deps Deps, cfg Config, opts ...Option) *Pipeline {
	if deps.Log == nil {
		deps.Log = slog.New(slog.DiscardHandler)
	}
	if deps.Sink == nil {
		deps.Sink = errlog.NewLogSink(deps.Log)
	}
	if deps.Lock == nil {
		deps.Lock = locker.NewMemory()
	}
	if cfg.DryRun {
		// Dry mode never reaches a real provider, even when one is wired.
		deps.Sender = mailer.NewDry()
	}

	p := &Pipeline{
		deps: deps,
		cfg:  cfg,
		now:  time.Now,
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full send for one mailout id.
func (p *Pipeline) Run(ctx context.Context, mailoutID string) (*Result, error) {
	if err := p.checkConfig(); err != nil {
		return nil, err
	}

	log := p.deps.Log.With(slog.String("mailout_id", mailoutID))

	page, err := p.deps.Docs.GetPage(ctx, mailoutID)
	if err != nil {
		return nil, err
	}
	meta := notion.PageMeta(page, p.cfg.Props)

	if meta.Subject == "" {
		p.report(ctx, errlog.Entry{
			MailoutID: mailoutID, IsTest: meta.IsTest,
			Provider: errlog.ProviderNotion, Stage: errlog.StageFetchContent,
			Code: "subject_required", Message: "Subject is missing",
		})
		return nil, ErrSubjectRequired
	}

	// Already-sent guard. Test mailouts are exempt so operators can rehearse
	// repeatedly.
	if !meta.IsTest && (meta.Status == p.cfg.StatusSentValue || meta.SentAt != "") {
		return nil, ErrAlreadySent
	}

	if !meta.IsTest {
		acquired, err := p.deps.Lock.TryAcquire(ctx, mailoutID)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrSendInProgress
		}
		defer func() {
			// Release must survive request cancellation.
			if err := p.deps.Lock.Release(context.WithoutCancel(ctx), mailoutID); err != nil {
				log.Error("failed to release send lock", slog.String("error", err.Error()))
			}
		}()
	}

	blocks, err := p.deps.Docs.GetPageContent(ctx, mailoutID)
	if err != nil {
		return nil, err
	}

	rendered := render.Blocks(blocks)
	for _, diag := range rendered.Diagnostics {
		p.report(ctx, errlog.Entry{
			MailoutID: mailoutID, IsTest: meta.IsTest,
			Provider: errlog.ProviderNotion, Stage: errlog.StageBuildMessage,
			Code: diag.Code, Message: "Unsupported block: " + diag.BlockType,
		})
	}
	if rendered.Empty() {
		p.report(ctx, errlog.Entry{
			MailoutID: mailoutID, IsTest: meta.IsTest,
			Provider: errlog.ProviderNotion, Stage: errlog.StageBuildMessage,
			Code: "empty_body", Message: "Email body is empty",
		})
		return nil, ErrEmptyBody
	}

	recipients, err := p.resolveRecipients(ctx, meta.IsTest)
	if err != nil {
		return nil, err
	}

	result := &Result{MailoutID: mailoutID, DryRun: p.cfg.DryRun}

	if len(recipients) == 0 {
		if meta.IsTest {
			p.report(ctx, errlog.Entry{
				MailoutID: mailoutID, IsTest: true,
				Provider: errlog.ProviderExecutor, Stage: errlog.StageSend,
				Code: "test_emails_empty", Message: "Test recipient list is empty",
			})
			return nil, ErrTestEmailsEmpty
		}
		// Zero active subscribers is a soft no-op, not an error.
		p.report(ctx, errlog.Entry{
			MailoutID: mailoutID,
			Provider:  errlog.ProviderPostgres, Stage: errlog.StageSend,
			Code: "no_active_subscribers", Message: "No active subscribers",
		})
		return result, nil
	}

	writer, err := report.NewWriter(p.cfg.ReportDir, mailoutID, p.now())
	if err != nil {
		return nil, err
	}
	result.ReportPath = writer.Path()

	p.sendLoop(ctx, meta, rendered, recipients, writer, result, log)

	if err := writer.Close(); err != nil {
		log.Error("failed to close report artifact", slog.String("error", err.Error()))
	}
	if p.deps.Uploader != nil {
		url, err := writer.Publish(ctx, p.deps.Uploader)
		if err != nil {
			log.Error("failed to upload report artifact", slog.String("error", err.Error()))
		} else {
			result.ReportURL = url
		}
	}

	p.reconcile(ctx, page, meta, result, log)

	log.Info("mailout run finished",
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Bool("dry_run", result.DryRun),
	)
	return result, nil
}

func (p *Pipeline) checkConfig() error {
	switch {
	case p.deps.Docs == nil:
		return ErrDocStoreNotConfigured
	case p.deps.Subscribers == nil:
		return ErrSubscribersNotConfigured
	case p.deps.Sender == nil:
		return ErrProviderNotConfigured
	case !p.cfg.Footer.Configured():
		return ErrFooterNotConfigured
	case p.cfg.FromEmail == "" && !p.cfg.DryRun:
		return ErrFromEmailMissing
	default:
		return nil
	}
}

func (p *Pipeline) resolveRecipients(ctx context.Context, isTest bool) ([]subscriber.Recipient, error) {
	if isTest {
		records := make([]subscriber.Recipient, 0, len(p.cfg.TestEmails))
		for _, email := range p.cfg.TestEmails {
			records = append(records, subscriber.Recipient{Email: email})
		}
		return subscriber.Resolve(records), nil
	}

	records, err := p.deps.Subscribers.FetchActive(ctx)
	if err != nil {
		return nil, err
	}
	return subscriber.Resolve(records), nil
}

// sendLoop iterates recipients in sequential batches. Batching only groups
// the work; every send is followed by the pacing delay whether it succeeded
// or not, which caps outbound throughput at the configured rate.
func (p *Pipeline) sendLoop(
	ctx context.Context,
	meta notion.Meta,
	rendered render.Result,
	recipients []subscriber.Recipient,
	writer *report.Writer,
	result *Result,
	log *slog.Logger,
) {
	interval := p.cfg.pacingInterval()
	batchSize := p.cfg.batchSize()

	rowStatus := report.StatusSent
	if p.cfg.DryRun {
		rowStatus = report.StatusSimulated
	}

	for start := 0; start < len(recipients); start += batchSize {
		end := min(start+batchSize, len(recipients))

		for _, recipient := range recipients[start:end] {
			receipt, err := p.sendOne(ctx, meta, rendered, recipient)
			if err != nil {
				result.Failed++
				p.appendRow(writer, report.Row{
					Email:        recipient.Email,
					Status:       report.StatusFailed,
					ErrorMessage: err.Error(),
					SentAt:       p.now(),
				}, log)
				p.report(ctx, errlog.Entry{
					MailoutID: result.MailoutID, IsTest: meta.IsTest,
					Provider: errlog.ProviderResend, Stage: errlog.StageSend,
					Email: recipient.Email,
					Code:  "send_failed", Message: err.Error(),
				})
			} else {
				result.Sent++
				p.appendRow(writer, report.Row{
					Email:     recipient.Email,
					Status:    rowStatus,
					MessageID: receipt.MessageID,
					SentAt:    p.now(),
				}, log)
			}

			p.sleep(ctx, interval)
		}
	}
}

func (p *Pipeline) sendOne(ctx context.Context, meta notion.Meta, rendered render.Result, recipient subscriber.Recipient) (*mailer.Receipt, error) {
	fromName := recipient.FromName
	if fromName == "" {
		fromName = p.cfg.FromName
	}
	if fromName == "" {
		fromName = p.cfg.Footer.OrgName
	}

	vars := map[string]string{
		"name":      placeholder.ResolveName(recipient.FromName, recipient.Email),
		"email":     recipient.Email,
		"from_name": fromName,
	}

	htmlFooter, textFooter, err := buildFooter(p.cfg.Footer, recipient.Email)
	if err != nil {
		return nil, err
	}

	fromEmail := p.cfg.FromEmail
	if fromEmail == "" && p.cfg.DryRun {
		fromEmail = "dry-run@localhost"
	}

	email := &mailer.Email{
		To:        recipient.Email,
		Subject:   placeholder.Apply(meta.Subject, vars),
		HTML:      placeholder.Apply(rendered.HTML, vars) + "\n" + placeholder.Apply(htmlFooter, vars),
		Text:      placeholder.Apply(rendered.Text, vars) + "\n" + placeholder.Apply(textFooter, vars),
		FromEmail: fromEmail,
		FromName:  fromName,
		ReplyTo:   p.cfg.ReplyTo,
	}

	return p.deps.Sender.Send(ctx, email)
}

// reconcile writes final status and counts back to the mailout page. This is
// best effort: the send already happened, so a write failure is logged and
// reported but never propagated.
func (p *Pipeline) reconcile(ctx context.Context, page *notion.Page, meta notion.Meta, result *Result, log *slog.Logger) {
	status := p.cfg.StatusSentValue
	if result.Failed > 0 {
		status = p.cfg.StatusFailedValue
	}

	props := p.cfg.Props
	updates := notion.BuildUpdate(page, map[string]any{
		props.Status:         status,
		props.SentAt:         p.now().UTC().Format(time.RFC3339),
		props.SentCount:      result.Sent,
		props.DeliveredCount: result.Sent,
		props.FailedCount:    result.Failed,
		props.BounceRate:     0.0,
		props.UnsubRate:      0.0,
	})
	if len(updates) == 0 {
		return
	}

	if err := p.deps.Docs.UpdateProperties(ctx, result.MailoutID, updates); err != nil {
		log.Error("reconciliation update failed", slog.String("error", err.Error()))
		p.report(ctx, errlog.Entry{
			MailoutID: result.MailoutID, IsTest: meta.IsTest,
			Provider: errlog.ProviderNotion, Stage: errlog.StageReport,
			Code: "notion_update_failed", Message: err.Error(),
		})
	}
}

func (p *Pipeline) appendRow(writer *report.Writer, row report.Row, log *slog.Logger) {
	if err := writer.Append(row); err != nil {
		log.Error("failed to append report row",
			slog.String("email", row.Email),
			slog.String("error", err.Error()),
		)
	}
}

func (p *Pipeline) report(ctx context.Context, entry errlog.Entry) {
	entry.Timestamp = p.now().UTC()
	p.deps.Sink.Log(ctx, entry)
}
