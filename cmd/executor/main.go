package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailout/internal/api"
	"github.com/dmitrymomot/mailout/internal/config"
	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/feedback"
	"github.com/dmitrymomot/mailout/internal/notion"
	"github.com/dmitrymomot/mailout/internal/pipeline"
	"github.com/dmitrymomot/mailout/internal/poller"
	"github.com/dmitrymomot/mailout/internal/subscriber"
	"github.com/dmitrymomot/mailout/pkg/db"
	"github.com/dmitrymomot/mailout/pkg/health"
	"github.com/dmitrymomot/mailout/pkg/locker"
	"github.com/dmitrymomot/mailout/pkg/logger"
	resendmailer "github.com/dmitrymomot/mailout/pkg/mailer/resend"
	redisconn "github.com/dmitrymomot/mailout/pkg/redis"
	"github.com/dmitrymomot/mailout/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry, cfg.Level(),
		logger.MailoutIDExtractor,
		logger.RunIDExtractor,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("executor exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run wires every collaborator the environment provides and serves until
// shutdown. A missing or failing collaborator is logged and left nil; the
// affected surfaces answer 500 and /health reports the gap, but the process
// stays up.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	checks := health.Checks{
		"notion":   nil,
		"postgres": nil,
		"provider": nil,
	}

	var docs *notion.Client
	if cfg.Notion.Configured() {
		client, err := notion.New(cfg.Notion.Token)
		if err != nil {
			return err
		}
		docs = client
		checks["notion"] = docs.Healthcheck()
	}

	var sink errlog.Sink = errlog.NewLogSink(log)
	if docs != nil && cfg.Notion.ErrorsDB != "" {
		sink = errlog.NewNotionSink(docs, cfg.Notion.ErrorsDB, cfg.Notion.ErrorProps, log)
	}

	var subStore *subscriber.Store
	if cfg.DB.Configured() {
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			log.Error("postgres unavailable", slog.String("error", err.Error()))
		} else {
			defer pool.Close()
			subStore = subscriber.NewStore(pool)
			checks["postgres"] = db.Healthcheck(pool)
		}
	}

	deps := pipeline.Deps{Sink: sink, Log: log}
	if docs != nil {
		deps.Docs = docs
	}
	if subStore != nil {
		deps.Subscribers = subStore
	}
	if cfg.Resend.Configured() {
		deps.Sender = resendmailer.New(cfg.Resend)
		checks["provider"] = func(context.Context) error { return nil }
	}

	if cfg.Redis.Configured() {
		client, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("redis unavailable, using in-process lock", slog.String("error", err.Error()))
		} else {
			defer client.Close()
			deps.Lock = locker.NewRedis(client)
			checks["redis"] = redisconn.Healthcheck(client)
		}
	}

	if cfg.Storage.Configured() {
		store, err := storage.New(cfg.Storage)
		if err != nil {
			log.Error("report storage unavailable", slog.String("error", err.Error()))
		} else {
			deps.Uploader = store
			checks["storage"] = store.Healthcheck
		}
	}

	pipe := pipeline.New(deps, cfg.PipelineConfig())

	var fp api.FeedbackProcessor
	if subStore != nil {
		verifier := feedback.NewVerifier()
		fp = feedback.NewProcessor(verifier, subStore, cfg.Feedback.AllowedTopicARNs(), log)
	}

	var subs api.SubscriberStore
	if subStore != nil {
		subs = subStore
	}

	healthHandler := health.Handler(checks, cfg.Send.DryRun, health.WithLogger(log))
	server := api.New(cfg.HTTP, pipe, subs, fp, healthHandler, sink, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var poll *poller.Poller
	if docs != nil && cfg.Poller.Configured() {
		poll = poller.New(docs, cfg.Poller, cfg.Notion.Props, sink, log)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("executor listening",
			slog.Int("port", cfg.Port),
			slog.Bool("dry_run", cfg.Send.DryRun),
		)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if poll == nil {
			return nil
		}
		if err := poll.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		poll.Stop()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
