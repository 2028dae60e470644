// Package logger builds the slog loggers used across the executor.
//
// New returns a JSON stdout logger; NewWithSentry additionally mirrors
// warnings and errors to Sentry when a DSN is configured, and quietly falls
// back to stdout-only when it is not.
//
// Context extractors attach request-scoped attributes to every record.
// The executor stores the current mailout and run identifiers in the
// context, so a single grep over mailout_id reconstructs a full run:
//
//	log := logger.NewWithSentry(cfg, slog.LevelInfo,
//		logger.MailoutIDExtractor,
//		logger.RunIDExtractor,
//	)
//	ctx = logger.WithMailoutID(ctx, mailoutID)
//	log.InfoContext(ctx, "send loop started")
package logger
