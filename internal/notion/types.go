package notion

import (
	"encoding/json"
	"strings"
)

// Block type identifiers the renderer understands. Anything else is reported
// as an unsupported block.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockQuote            = "quote"
	BlockDivider          = "divider"
	BlockImage            = "image"
	BlockCode             = "code"
	BlockCallout          = "callout"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
)

// Annotations are the inline style flags on a rich text run.
type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Underline     bool `json:"underline"`
	Strikethrough bool `json:"strikethrough"`
	Code          bool `json:"code"`
}

// RichText is one styled run of inline text.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
}

// FileRef points at an externally hosted or workspace-hosted file.
type FileRef struct {
	URL string `json:"url"`
}

// BlockData is the type-specific payload of a block. The API nests it under
// a key equal to the block type; Block.UnmarshalJSON flattens that away.
type BlockData struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
	Source   string     `json:"type"`
	External *FileRef   `json:"external"`
	File     *FileRef   `json:"file"`
	Checked  bool       `json:"checked"`
}

// ImageURL resolves the image source for an image block, preferring the
// external URL over the workspace-hosted one.
func (d BlockData) ImageURL() string {
	if d.Source == "external" && d.External != nil {
		return d.External.URL
	}
	if d.File != nil {
		return d.File.URL
	}
	return ""
}

// Block is one content block of a mailout page.
type Block struct {
	ID   string
	Type string
	Data BlockData
}

// UnmarshalJSON reads the block envelope and then decodes the payload nested
// under the type key, so callers never touch the dynamic-key wire shape.
func (b *Block) UnmarshalJSON(data []byte) error {
	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	b.ID = envelope.ID
	b.Type = envelope.Type
	b.Data = BlockData{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	payload, ok := fields[envelope.Type]
	if !ok {
		return nil
	}
	return json.Unmarshal(payload, &b.Data)
}

// SelectValue is the named option of a select or status property.
type SelectValue struct {
	Name string `json:"name"`
}

// DateValue carries the start of a date property.
type DateValue struct {
	Start string `json:"start"`
}

// Property is one page property in any of the schema types the executor
// reads or writes.
type Property struct {
	Type     string       `json:"type"`
	Title    []RichText   `json:"title,omitempty"`
	RichText []RichText   `json:"rich_text,omitempty"`
	Select   *SelectValue `json:"select,omitempty"`
	Status   *SelectValue `json:"status,omitempty"`
	Checkbox *bool        `json:"checkbox,omitempty"`
	Number   *float64     `json:"number,omitempty"`
	Date     *DateValue   `json:"date,omitempty"`
}

// Text extracts the string form of the property value. Unrepresentable types
// yield an empty string.
func (p Property) Text() string {
	switch p.Type {
	case "title":
		return joinPlainText(p.Title)
	case "rich_text":
		return joinPlainText(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
	case "status":
		if p.Status != nil {
			return p.Status.Name
		}
	case "date":
		if p.Date != nil {
			return p.Date.Start
		}
	}
	return ""
}

// Bool interprets the property as a flag: checkbox value for checkboxes,
// presence of text for everything else.
func (p Property) Bool() bool {
	if p.Type == "checkbox" {
		return p.Checkbox != nil && *p.Checkbox
	}
	return p.Text() != ""
}

func joinPlainText(runs []RichText) string {
	var sb strings.Builder
	for _, rt := range runs {
		sb.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// Page is a mailout record with its property values.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}
