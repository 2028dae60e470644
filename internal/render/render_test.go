package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/internal/notion"
	"github.com/dmitrymomot/mailout/internal/render"
)

func para(runs ...notion.RichText) notion.Block {
	return notion.Block{Type: notion.BlockParagraph, Data: notion.BlockData{RichText: runs}}
}

func plain(s string) notion.RichText {
	return notion.RichText{PlainText: s}
}

func listItem(kind, s string) notion.Block {
	return notion.Block{Type: kind, Data: notion.BlockData{RichText: []notion.RichText{plain(s)}}}
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	t.Run("paragraph and heading", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			{Type: notion.BlockHeading1, Data: notion.BlockData{RichText: []notion.RichText{plain("Hello")}}},
			para(plain("World")),
		})

		require.Equal(t, "<h1>Hello</h1>\n<p>World</p>", res.HTML)
		require.Equal(t, "Hello\nWorld", res.Text)
		require.Empty(t, res.Diagnostics)
	})

	t.Run("annotations nest and text stays plain", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{para(notion.RichText{
			PlainText:   "go",
			Href:        "https://go.dev",
			Annotations: notion.Annotations{Bold: true, Code: true},
		})})

		require.Equal(t, `<p><a href="https://go.dev"><strong><code>go</code></strong></a></p>`, res.HTML)
		require.Equal(t, "go", res.Text)
	})

	t.Run("html characters are escaped", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{para(plain(`a < b & "c"`))})
		require.Equal(t, "<p>a &lt; b &amp; &#34;c&#34;</p>", res.HTML)
		require.Equal(t, `a < b & "c"`, res.Text)
	})

	t.Run("same-kind list items group into one container", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			listItem(notion.BlockBulletedListItem, "one"),
			listItem(notion.BlockBulletedListItem, "two"),
		})

		require.Equal(t, "<ul><li>one</li><li>two</li></ul>", res.HTML)
		require.Equal(t, "- one\n- two", res.Text)
	})

	t.Run("kind change flushes into separate groups", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			listItem(notion.BlockBulletedListItem, "one"),
			listItem(notion.BlockBulletedListItem, "two"),
			listItem(notion.BlockNumberedListItem, "first"),
		})

		require.Equal(t, "<ul><li>one</li><li>two</li></ul>\n<ol><li>first</li></ol>", res.HTML)
		require.Equal(t, "- one\n- two\n- first", res.Text)
	})

	t.Run("non-list block flushes a pending group", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			listItem(notion.BlockBulletedListItem, "one"),
			para(plain("between")),
			listItem(notion.BlockBulletedListItem, "two"),
		})

		require.Equal(t, "<ul><li>one</li></ul>\n<p>between</p>\n<ul><li>two</li></ul>", res.HTML)
	})

	t.Run("to-do items join bulleted groups", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			listItem(notion.BlockBulletedListItem, "one"),
			listItem(notion.BlockToDo, "check"),
		})

		require.Equal(t, "<ul><li>one</li><li>check</li></ul>", res.HTML)
	})

	t.Run("empty paragraph is skipped entirely", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			para(plain("before")),
			para(),
			para(plain("after")),
		})

		require.Equal(t, "<p>before</p>\n<p>after</p>", res.HTML)
		require.Equal(t, "before\nafter", res.Text)
	})

	t.Run("divider renders hr with no text", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			para(plain("a")),
			{Type: notion.BlockDivider},
			para(plain("b")),
		})

		require.Equal(t, "<p>a</p>\n<hr>\n<p>b</p>", res.HTML)
		require.Equal(t, "a\nb", res.Text)
	})

	t.Run("image uses url in both variants", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{{
			Type: notion.BlockImage,
			Data: notion.BlockData{Source: "external", External: &notion.FileRef{URL: "https://cdn.example.com/a.png"}},
		}})

		require.Equal(t, `<img src="https://cdn.example.com/a.png" alt="image">`, res.HTML)
		require.Equal(t, "https://cdn.example.com/a.png", res.Text)
	})

	t.Run("image without url is unsupported", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{{Type: notion.BlockImage}})
		require.Len(t, res.Diagnostics, 1)
		require.Equal(t, render.CodeUnsupportedBlock, res.Diagnostics[0].Code)
		require.Equal(t, notion.BlockImage, res.Diagnostics[0].BlockType)
	})

	t.Run("code block carries language", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{{
			Type: notion.BlockCode,
			Data: notion.BlockData{Language: "go", RichText: []notion.RichText{plain("x := 1")}},
		}})

		require.Equal(t, `<pre><code data-lang="go">x := 1</code></pre>`, res.HTML)
		require.Equal(t, "x := 1", res.Text)
	})

	t.Run("unsupported block with text payload falls back to paragraph", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{{
			Type: "toggle",
			Data: notion.BlockData{RichText: []notion.RichText{plain("hidden but kept")}},
		}})

		require.Equal(t, "<p>hidden but kept</p>", res.HTML)
		require.Equal(t, "hidden but kept", res.Text)
		require.Len(t, res.Diagnostics, 1)
		require.Equal(t, "toggle", res.Diagnostics[0].BlockType)
	})

	t.Run("unsupported block without payload produces only a diagnostic", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{{Type: "child_database"}})
		require.True(t, res.Empty())
		require.Len(t, res.Diagnostics, 1)
	})

	t.Run("quote and callout render as blockquote", func(t *testing.T) {
		t.Parallel()

		res := render.Blocks([]notion.Block{
			{Type: notion.BlockQuote, Data: notion.BlockData{RichText: []notion.RichText{plain("wise")}}},
			{Type: notion.BlockCallout, Data: notion.BlockData{RichText: []notion.RichText{plain("note")}}},
		})

		require.Equal(t, "<blockquote>wise</blockquote>\n<blockquote>note</blockquote>", res.HTML)
	})
}
