package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/feedback"
	"github.com/dmitrymomot/mailout/internal/pipeline"
)

// Runner executes the send pipeline for one mailout id.
type Runner interface {
	Run(ctx context.Context, mailoutID string) (*pipeline.Result, error)
}

// SubscriberStore is the slice of the subscriber store the unsubscribe
// surface needs.
type SubscriberStore interface {
	Unsubscribe(ctx context.Context, email string) error
}

// FeedbackProcessor applies one delivery-feedback envelope.
type FeedbackProcessor interface {
	Process(ctx context.Context, env *feedback.Envelope) (*feedback.Result, error)
}

// Config carries the HTTP surface settings.
type Config struct {
	// SharedSecret gates /send-mailout when set. Callers pass it in the
	// X-Auth-Token header or the auth_token body field.
	SharedSecret string `env:"EXECUTOR_SHARED_SECRET"`

	// WebhookSecret validates the X-Notion-Signature header when both the
	// secret and the header are present.
	WebhookSecret string `env:"NOTION_WEBHOOK_VERIFICATION_TOKEN"`

	// UnsubscribeSecret verifies tokens on /unsubscribe. Matches the secret
	// the pipeline signs footer links with.
	UnsubscribeSecret string `env:"UNSUBSCRIBE_SECRET"`
}

// Server wires the handlers to their collaborators. Any collaborator may be
// nil; the affected surface answers 500 instead of the process refusing to
// start.
type Server struct {
	cfg      Config
	runner   Runner
	subs     SubscriberStore
	feedback FeedbackProcessor
	health   http.HandlerFunc
	sink     errlog.Sink
	log      *slog.Logger
}

// New creates a Server.
func New(cfg Config, runner Runner, subs SubscriberStore, fp FeedbackProcessor, healthHandler http.HandlerFunc, sink errlog.Sink, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if sink == nil {
		sink = errlog.NewLogSink(log)
	}
	if healthHandler == nil {
		healthHandler = func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		}
	}

	return &Server{
		cfg:      cfg,
		runner:   runner,
		subs:     subs,
		feedback: fp,
		health:   healthHandler,
		sink:     sink,
		log:      log,
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)

	r.Post("/send-mailout", s.sendMailout)
	r.Get("/unsubscribe", s.unsubscribe)
	r.Post("/ses-events", s.sesEvents)
	r.Get("/health", s.health)

	return r
}

// recoverer answers panics as 500 and records them in the operator error log.
// The serving process must stay up no matter what a handler does.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				s.log.Error("panic in handler",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
				)
				s.sink.Log(r.Context(), errlog.Entry{
					Provider: errlog.ProviderExecutor, Stage: errlog.StageSend,
					Code: "unhandled", Message: "panic in handler",
				})
				writeError(w, http.StatusInternalServerError, "internal_error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
