package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/pkg/health"
)

func TestHandler(t *testing.T) {
	t.Parallel()

	healthy := func(ctx context.Context) error { return nil }
	failing := func(ctx context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()

		handler := health.Handler(health.Checks{
			"notion":   healthy,
			"database": healthy,
		}, false)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.True(t, report.OK)
		require.False(t, report.DryRun)
		require.True(t, report.Collaborators["notion"])
		require.True(t, report.Collaborators["database"])
	})

	t.Run("failing probe still answers 200", func(t *testing.T) {
		t.Parallel()

		handler := health.Handler(health.Checks{
			"notion":   healthy,
			"database": failing,
		}, false)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.False(t, report.OK)
		require.True(t, report.Collaborators["notion"])
		require.False(t, report.Collaborators["database"])
	})

	t.Run("nil check marks collaborator unconfigured", func(t *testing.T) {
		t.Parallel()

		handler := health.Handler(health.Checks{
			"notion":   healthy,
			"provider": nil,
		}, false)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.False(t, report.OK)
		require.False(t, report.Collaborators["provider"])
	})

	t.Run("dry run flag surfaces in report", func(t *testing.T) {
		t.Parallel()

		handler := health.Handler(health.Checks{"notion": healthy}, true)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.True(t, report.DryRun)
	})
}
