package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/notion"
)

type fakeDocs struct {
	mu       sync.Mutex
	pages    []notion.Page
	queryErr error
	updates  []statusUpdate
}

type statusUpdate struct {
	pageID string
	value  string
}

func (d *fakeDocs) QueryByStatus(_ context.Context, _, _, _ string, _ int) ([]notion.Page, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return d.pages, nil
}

func (d *fakeDocs) UpdateProperties(_ context.Context, pageID string, properties map[string]any) error {
	value := ""
	if prop, ok := properties["Status"].(map[string]any); ok {
		if inner, ok := prop["status"].(map[string]any); ok {
			value, _ = inner["name"].(string)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updates = append(d.updates, statusUpdate{pageID: pageID, value: value})
	return nil
}

func (d *fakeDocs) statusTrail() []statusUpdate {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]statusUpdate(nil), d.updates...)
}

type recordSink struct {
	mu      sync.Mutex
	entries []errlog.Entry
}

func (s *recordSink) Log(_ context.Context, entry errlog.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *recordSink) codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		codes = append(codes, e.Code)
	}
	return codes
}

func triggeredPage(id string, isTest bool) notion.Page {
	checked := isTest
	return notion.Page{
		ID: id,
		Properties: map[string]notion.Property{
			"Status": {Type: "status", Status: &notion.SelectValue{Name: "Send"}},
			"Test":   {Type: "checkbox", Checkbox: &checked},
		},
	}
}

func pollerConfig(triggerURL string) Config {
	return Config{
		Schedule:              "@every 1m",
		DatabaseID:            "db-1",
		TriggerURL:            triggerURL,
		SharedSecret:          "poll-secret",
		StatusTriggerValue:    "Send",
		StatusInProgressValue: "In progress",
		StatusNotStartedValue: "Not started",
	}
}

func defaultProps() notion.PropertyMap {
	return notion.PropertyMap{Status: "Status", Test: "Test", Subject: "Subject"}
}

func TestTickHandsOffTestMailout(t *testing.T) {
	t.Parallel()

	type received struct {
		mailoutID string
		authToken string
		header    string
	}
	var (
		mu   sync.Mutex
		reqs []received
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		reqs = append(reqs, received{
			mailoutID: body["mailout_id"],
			authToken: body["auth_token"],
			header:    r.Header.Get("X-Auth-Token"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	docs := &fakeDocs{pages: []notion.Page{triggeredPage("page-1", true)}}
	sink := &recordSink{}

	p := New(docs, pollerConfig(srv.URL), defaultProps(), sink, nil)
	p.tick(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reqs, 1)
	require.Equal(t, "page-1", reqs[0].mailoutID)
	require.Equal(t, "poll-secret", reqs[0].authToken)
	require.Equal(t, "poll-secret", reqs[0].header)

	// One transition only: into in-progress, no revert.
	trail := docs.statusTrail()
	require.Len(t, trail, 1)
	require.Equal(t, statusUpdate{pageID: "page-1", value: "In progress"}, trail[0])
	require.Empty(t, sink.codes())
}

func TestTickBlocksNonTestMailout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("non-test mailout must not reach the trigger surface")
	}))
	defer srv.Close()

	docs := &fakeDocs{pages: []notion.Page{triggeredPage("page-1", false)}}
	sink := &recordSink{}

	p := New(docs, pollerConfig(srv.URL), defaultProps(), sink, nil)
	p.tick(context.Background())

	require.Contains(t, sink.codes(), "non_test_send_blocked")

	trail := docs.statusTrail()
	require.Len(t, trail, 2)
	require.Equal(t, "In progress", trail[0].value)
	require.Equal(t, "Not started", trail[1].value)
}

func TestTickAllowsNonTestWhenEnabled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := pollerConfig(srv.URL)
	cfg.AllowNonTestSend = true

	docs := &fakeDocs{pages: []notion.Page{triggeredPage("page-1", false)}}
	sink := &recordSink{}

	p := New(docs, cfg, defaultProps(), sink, nil)
	p.tick(context.Background())

	require.Empty(t, sink.codes())
	trail := docs.statusTrail()
	require.Len(t, trail, 1)
	require.Equal(t, "In progress", trail[0].value)
}

func TestTickRevertsOnFailedHandoff(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	docs := &fakeDocs{pages: []notion.Page{triggeredPage("page-1", true)}}
	sink := &recordSink{}

	p := New(docs, pollerConfig(srv.URL), defaultProps(), sink, nil)
	p.tick(context.Background())

	require.Contains(t, sink.codes(), "local_send_failed")

	trail := docs.statusTrail()
	require.Len(t, trail, 2)
	require.Equal(t, "In progress", trail[0].value)
	require.Equal(t, "Not started", trail[1].value)
}

func TestTickSkipsInFlightMailout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("in-flight mailout must not be picked up again")
	}))
	defer srv.Close()

	docs := &fakeDocs{pages: []notion.Page{triggeredPage("page-1", true)}}

	p := New(docs, pollerConfig(srv.URL), defaultProps(), &recordSink{}, nil)
	require.True(t, p.claim("page-1"))

	p.tick(context.Background())
	require.Empty(t, docs.statusTrail())
}

func TestTickReportsQueryFailure(t *testing.T) {
	t.Parallel()

	docs := &fakeDocs{queryErr: context.DeadlineExceeded}
	sink := &recordSink{}

	p := New(docs, pollerConfig("http://127.0.0.1:0"), defaultProps(), sink, nil)
	p.tick(context.Background())

	require.Contains(t, sink.codes(), "notion_poll_failed")
}

func TestStartRequiresConfiguration(t *testing.T) {
	t.Parallel()

	p := New(&fakeDocs{}, Config{}, defaultProps(), &recordSink{}, nil)
	require.ErrorIs(t, p.Start(context.Background()), ErrNotConfigured)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	cfg := pollerConfig("http://127.0.0.1:0")
	cfg.Schedule = "not a schedule"

	p := New(&fakeDocs{}, cfg, defaultProps(), &recordSink{}, nil)
	require.ErrorIs(t, p.Start(context.Background()), ErrBadSchedule)
}
