package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/notion"
)

// DocumentStore is the slice of the document-store client the poller needs.
type DocumentStore interface {
	QueryByStatus(ctx context.Context, databaseID, statusProp, value string, limit int) ([]notion.Page, error)
	UpdateProperties(ctx context.Context, pageID string, properties map[string]any) error
}

// Config carries the poller settings. An empty Schedule or DatabaseID
// disables polling entirely.
type Config struct {
	Schedule   string `env:"POLL_SCHEDULE"`
	DatabaseID string `env:"NOTION_DB_MAILOUTS_ID"`
	BatchLimit int    `env:"POLL_BATCH_LIMIT" envDefault:"10"`

	// AllowNonTestSend lets the poller hand off non-test mailouts. Off by
	// default so a mistyped status can never fan out to the full list.
	AllowNonTestSend bool `env:"ALLOW_NON_TEST_SEND" envDefault:"false"`

	TriggerURL   string `env:"POLL_TRIGGER_URL" envDefault:"http://127.0.0.1:8080/send-mailout"`
	SharedSecret string `env:"EXECUTOR_SHARED_SECRET"`

	StatusTriggerValue    string `env:"NOTION_STATUS_TRIGGER_VALUE" envDefault:"Send"`
	StatusInProgressValue string `env:"NOTION_STATUS_IN_PROGRESS_VALUE" envDefault:"In progress"`
	StatusNotStartedValue string `env:"NOTION_STATUS_NOT_STARTED_VALUE" envDefault:"Not started"`
}

// Configured reports whether polling is enabled.
func (c Config) Configured() bool {
	return c.Schedule != "" && c.DatabaseID != ""
}

func (c Config) batchLimit() int {
	if c.BatchLimit < 1 {
		return 10
	}
	return c.BatchLimit
}

// Poller drives the trigger scan on a cron schedule.
type Poller struct {
	docs       DocumentStore
	cfg        Config
	props      notion.PropertyMap
	sink       errlog.Sink
	log        *slog.Logger
	httpClient *http.Client
	cron       *cron.Cron

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option configures a Poller.
type Option func(*Poller)

// WithHTTPClient overrides the loopback transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Poller) {
		if hc != nil {
			p.httpClient = hc
		}
	}
}

// New wires a Poller.
func New(docs DocumentStore, cfg Config, props notion.PropertyMap, sink errlog.Sink, log *slog.Logger, opts ...Option) *Poller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if sink == nil {
		sink = errlog.NewLogSink(log)
	}

	p := &Poller{
		docs:       docs,
		cfg:        cfg,
		props:      props,
		sink:       sink,
		log:        log,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		inFlight:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules the scan and kicks one immediately, mirroring how status
// flips are expected to be picked up without waiting a full interval.
func (p *Poller) Start(ctx context.Context) error {
	if !p.cfg.Configured() {
		return ErrNotConfigured
	}

	p.cron = cron.New()
	if _, err := p.cron.AddFunc(p.cfg.Schedule, func() { p.tick(ctx) }); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSchedule, err)
	}

	p.log.Info("trigger poller started",
		slog.String("schedule", p.cfg.Schedule),
		slog.String("trigger_status", p.cfg.StatusTriggerValue),
	)

	go p.tick(ctx)
	p.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

func (p *Poller) tick(ctx context.Context) {
	pages, err := p.docs.QueryByStatus(ctx, p.cfg.DatabaseID, p.props.Status, p.cfg.StatusTriggerValue, p.cfg.batchLimit())
	if err != nil {
		p.log.Error("trigger scan failed", slog.String("error", err.Error()))
		p.sink.Log(ctx, errlog.Entry{
			Provider: errlog.ProviderNotion, Stage: errlog.StagePoll,
			Code: "notion_poll_failed", Message: err.Error(),
		})
		return
	}
	if len(pages) == 0 {
		return
	}

	p.log.Info("found triggered mailouts", slog.Int("count", len(pages)))

	for _, page := range pages {
		if page.ID == "" || !p.claim(page.ID) {
			continue
		}
		p.process(ctx, page)
	}
}

// process hands one triggered row to the local send surface. The row leaves
// the trigger status before the handoff so the next tick cannot pick it up
// again while the send runs.
func (p *Poller) process(ctx context.Context, page notion.Page) {
	defer p.release(page.ID)

	p.setStatus(ctx, &page, p.cfg.StatusInProgressValue)

	meta := notion.PageMeta(&page, p.props)

	if !meta.IsTest && !p.cfg.AllowNonTestSend {
		p.sink.Log(ctx, errlog.Entry{
			MailoutID: page.ID,
			Provider:  errlog.ProviderExecutor, Stage: errlog.StagePoll,
			Code:    "non_test_send_blocked",
			Message: "Refusing to auto-send non-test mailout without ALLOW_NON_TEST_SEND=true",
		})
		p.setStatus(ctx, &page, p.cfg.StatusNotStartedValue)
		return
	}

	if err := p.trigger(ctx, page.ID); err != nil {
		p.sink.Log(ctx, errlog.Entry{
			MailoutID: page.ID, IsTest: meta.IsTest,
			Provider: errlog.ProviderExecutor, Stage: errlog.StagePoll,
			Code: "local_send_failed", Message: err.Error(),
		})
		p.setStatus(ctx, &page, p.cfg.StatusNotStartedValue)
	}
}

// trigger posts the mailout id to the local send surface with the same
// shared-secret gate external callers pass.
func (p *Poller) trigger(ctx context.Context, mailoutID string) error {
	payload := map[string]string{"mailout_id": mailoutID}
	if p.cfg.SharedSecret != "" {
		payload["auth_token"] = p.cfg.SharedSecret
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTriggerFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TriggerURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTriggerFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.SharedSecret != "" {
		req.Header.Set("X-Auth-Token", p.cfg.SharedSecret)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTriggerFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: local /send-mailout returned %d", ErrTriggerFailed, resp.StatusCode)
	}
	return nil
}

// setStatus is best effort: a failed transition only costs an extra pickup
// or a manual status fix, never the run itself.
func (p *Poller) setStatus(ctx context.Context, page *notion.Page, value string) {
	update := notion.BuildUpdate(page, map[string]any{p.props.Status: value})
	if len(update) == 0 {
		return
	}
	if err := p.docs.UpdateProperties(ctx, page.ID, update); err != nil {
		p.log.Error("failed to update mailout status",
			slog.String("mailout_id", page.ID),
			slog.String("status", value),
			slog.String("error", err.Error()),
		)
	}
}

func (p *Poller) claim(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inFlight[id]; ok {
		return false
	}
	p.inFlight[id] = struct{}{}
	return true
}

func (p *Poller) release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, id)
}
