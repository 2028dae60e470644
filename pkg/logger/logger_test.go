package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/pkg/logger"
)

func TestMailoutIDExtractor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, ok := logger.MailoutIDExtractor(ctx)
	require.False(t, ok)

	ctx = logger.WithMailoutID(ctx, "m-123")
	attr, ok := logger.MailoutIDExtractor(ctx)
	require.True(t, ok)
	require.Equal(t, "mailout_id", attr.Key)
	require.Equal(t, "m-123", attr.Value.String())
}

func TestRunIDExtractor(t *testing.T) {
	t.Parallel()

	ctx := logger.WithRunID(context.Background(), "r-1")
	attr, ok := logger.RunIDExtractor(ctx)
	require.True(t, ok)
	require.Equal(t, "run_id", attr.Key)
	require.Equal(t, "r-1", attr.Value.String())
}

func TestNewNopeDiscards(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Info("ignored")
	log.Error("ignored too")
}
