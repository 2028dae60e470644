package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/dmitrymomot/mailout/internal/notion"
)

// CodeUnsupportedBlock identifies the diagnostic raised for a block type the
// renderer does not know.
const CodeUnsupportedBlock = "content_block_unsupported"

// Diagnostic records a non-fatal rendering problem for the operator log.
type Diagnostic struct {
	Code      string
	BlockType string
}

// Result carries both body variants plus render diagnostics.
type Result struct {
	HTML        string
	Text        string
	Diagnostics []Diagnostic
}

// Empty reports whether the render produced no usable body at all.
func (r Result) Empty() bool {
	return r.HTML == "" && r.Text == ""
}

type segment struct {
	html        string
	text        string
	listItem    bool
	ordered     bool
	unsupported bool
}

// listGroup buffers consecutive list items of one kind until a block of a
// different shape flushes them into a single container.
type listGroup struct {
	itemsHTML []string
	itemsText []string
	ordered   bool
}

// Blocks renders an ordered block sequence. HTML and text outputs are
// newline-joined concatenations of the emitted segments; a run of list items
// of the same kind becomes one segment.
func Blocks(blocks []notion.Block) Result {
	var (
		htmlParts []string
		textParts []string
		diags     []Diagnostic
		list      *listGroup
	)

	flush := func() {
		if list == nil {
			return
		}
		tag := "ul"
		if list.ordered {
			tag = "ol"
		}
		htmlParts = append(htmlParts, fmt.Sprintf("<%s>%s</%s>", tag, strings.Join(list.itemsHTML, ""), tag))
		textParts = append(textParts, strings.Join(list.itemsText, "\n"))
		list = nil
	}

	for _, block := range blocks {
		seg := renderBlock(block)

		if seg.listItem {
			if list == nil || list.ordered != seg.ordered {
				flush()
				list = &listGroup{ordered: seg.ordered}
			}
			list.itemsHTML = append(list.itemsHTML, "<li>"+seg.html+"</li>")
			list.itemsText = append(list.itemsText, "- "+seg.text)
			continue
		}

		flush()

		if seg.unsupported {
			diags = append(diags, Diagnostic{Code: CodeUnsupportedBlock, BlockType: block.Type})
			// Fallback: keep whatever text the block carries.
			if len(block.Data.RichText) > 0 {
				h, txt := renderRichText(block.Data.RichText)
				if h != "" {
					htmlParts = append(htmlParts, "<p>"+h+"</p>")
				}
				if txt != "" {
					textParts = append(textParts, txt)
				}
			}
			continue
		}

		if seg.html != "" {
			htmlParts = append(htmlParts, seg.html)
		}
		if seg.text != "" {
			textParts = append(textParts, seg.text)
		}
	}

	flush()

	return Result{
		HTML:        strings.Join(htmlParts, "\n"),
		Text:        strings.Join(textParts, "\n"),
		Diagnostics: diags,
	}
}

func renderBlock(block notion.Block) segment {
	switch block.Type {
	case notion.BlockParagraph:
		h, txt := renderRichText(block.Data.RichText)
		if h == "" && txt == "" {
			return segment{}
		}
		return segment{html: "<p>" + h + "</p>", text: txt}
	case notion.BlockHeading1:
		h, txt := renderRichText(block.Data.RichText)
		return segment{html: "<h1>" + h + "</h1>", text: txt}
	case notion.BlockHeading2:
		h, txt := renderRichText(block.Data.RichText)
		return segment{html: "<h2>" + h + "</h2>", text: txt}
	case notion.BlockHeading3:
		h, txt := renderRichText(block.Data.RichText)
		return segment{html: "<h3>" + h + "</h3>", text: txt}
	case notion.BlockQuote, notion.BlockCallout:
		h, txt := renderRichText(block.Data.RichText)
		return segment{html: "<blockquote>" + h + "</blockquote>", text: txt}
	case notion.BlockDivider:
		return segment{html: "<hr>"}
	case notion.BlockImage:
		url := block.Data.ImageURL()
		if url == "" {
			return segment{unsupported: true}
		}
		return segment{html: fmt.Sprintf("<img src=%q alt=\"image\">", url), text: url}
	case notion.BlockCode:
		h, txt := renderRichText(block.Data.RichText)
		return segment{
			html: fmt.Sprintf("<pre><code data-lang=%q>%s</code></pre>", block.Data.Language, h),
			text: txt,
		}
	case notion.BlockBulletedListItem, notion.BlockToDo:
		h, txt := renderRichText(block.Data.RichText)
		return segment{html: h, text: txt, listItem: true}
	case notion.BlockNumberedListItem:
		h, txt := renderRichText(block.Data.RichText)
		return segment{html: h, text: txt, listItem: true, ordered: true}
	default:
		return segment{unsupported: true}
	}
}

// renderRichText composes annotated runs into nested inline markup for the
// HTML variant and bare characters for the text variant.
func renderRichText(runs []notion.RichText) (string, string) {
	var htmlOut, textOut strings.Builder

	for _, rt := range runs {
		textOut.WriteString(rt.PlainText)

		h := html.EscapeString(rt.PlainText)
		ann := rt.Annotations
		if ann.Code {
			h = "<code>" + h + "</code>"
		}
		if ann.Bold {
			h = "<strong>" + h + "</strong>"
		}
		if ann.Italic {
			h = "<em>" + h + "</em>"
		}
		if ann.Underline {
			h = "<u>" + h + "</u>"
		}
		if ann.Strikethrough {
			h = "<s>" + h + "</s>"
		}
		if rt.Href != "" {
			h = fmt.Sprintf("<a href=%q>%s</a>", rt.Href, h)
		}
		htmlOut.WriteString(h)
	}

	return htmlOut.String(), textOut.String()
}
