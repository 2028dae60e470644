package notion_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/internal/notion"
)

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	page := &notion.Page{
		ID: "page-1",
		Properties: map[string]notion.Property{
			"Status":     {Type: "status"},
			"Mode":       {Type: "select"},
			"Archived":   {Type: "checkbox"},
			"Sent Count": {Type: "number"},
			"Sent At":    {Type: "date"},
			"Note":       {Type: "rich_text"},
			"Owner":      {Type: "people"},
		},
	}

	t.Run("maps each schema type", func(t *testing.T) {
		t.Parallel()

		out := notion.BuildUpdate(page, map[string]any{
			"Status":     "Sent",
			"Mode":       "live",
			"Archived":   true,
			"Sent Count": 42,
			"Sent At":    "2026-03-01T10:00:00Z",
			"Note":       "ok",
		})

		require.Len(t, out, 6)
		require.Equal(t, map[string]any{"status": map[string]any{"name": "Sent"}}, out["Status"])
		require.Equal(t, map[string]any{"select": map[string]any{"name": "live"}}, out["Mode"])
		require.Equal(t, map[string]any{"checkbox": true}, out["Archived"])
		require.Equal(t, map[string]any{"number": float64(42)}, out["Sent Count"])
		require.Equal(t, map[string]any{"date": map[string]any{"start": "2026-03-01T10:00:00Z"}}, out["Sent At"])
	})

	t.Run("skips properties absent from schema", func(t *testing.T) {
		t.Parallel()

		out := notion.BuildUpdate(page, map[string]any{"Bounce Rate": 0.0})
		require.Empty(t, out)
	})

	t.Run("skips schema types it cannot represent", func(t *testing.T) {
		t.Parallel()

		out := notion.BuildUpdate(page, map[string]any{"Owner": "someone"})
		require.Empty(t, out)
	})

	t.Run("empty date clears the property", func(t *testing.T) {
		t.Parallel()

		out := notion.BuildUpdate(page, map[string]any{"Sent At": ""})
		require.Equal(t, map[string]any{"date": nil}, out["Sent At"])
	})

	t.Run("non-numeric value for number property is skipped", func(t *testing.T) {
		t.Parallel()

		out := notion.BuildUpdate(page, map[string]any{"Sent Count": "many"})
		require.Empty(t, out)
	})
}
