package notion

import (
	"fmt"
	"time"
)

// BuildUpdate translates logical field updates into wire-shaped property
// values using the page's actual schema types. Properties missing from the
// schema, and schema types the executor cannot represent, are skipped rather
// than guessed at, so a reshaped database degrades to partial reconciliation
// instead of API errors.
func BuildUpdate(page *Page, updates map[string]any) map[string]any {
	out := make(map[string]any, len(updates))

	for name, value := range updates {
		prop, ok := page.Properties[name]
		if !ok {
			continue
		}

		switch prop.Type {
		case "status":
			out[name] = map[string]any{"status": map[string]any{"name": stringValue(value)}}
		case "select":
			out[name] = map[string]any{"select": map[string]any{"name": stringValue(value)}}
		case "checkbox":
			b, _ := value.(bool)
			out[name] = map[string]any{"checkbox": b}
		case "number":
			n, ok := numberValue(value)
			if !ok {
				continue
			}
			out[name] = map[string]any{"number": n}
		case "date":
			s := stringValue(value)
			if s == "" {
				out[name] = map[string]any{"date": nil}
			} else {
				out[name] = map[string]any{"date": map[string]any{"start": s}}
			}
		case "rich_text":
			out[name] = RichTextProp(stringValue(value))
		}
	}

	return out
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}

// Typed property constructors for rows created by the executor, where the
// target schema is known by convention rather than fetched.

func TitleProp(s string) map[string]any {
	return map[string]any{"title": []map[string]any{{"text": map[string]any{"content": s}}}}
}

func RichTextProp(s string) map[string]any {
	return map[string]any{"rich_text": []map[string]any{{"text": map[string]any{"content": s}}}}
}

func SelectProp(s string) map[string]any {
	return map[string]any{"select": map[string]any{"name": s}}
}

func CheckboxProp(b bool) map[string]any {
	return map[string]any{"checkbox": b}
}

func NumberProp(n float64) map[string]any {
	return map[string]any{"number": n}
}

func DateProp(t time.Time) map[string]any {
	return map[string]any{"date": map[string]any{"start": t.UTC().Format(time.RFC3339)}}
}

func EmailProp(s string) map[string]any {
	return map[string]any{"email": s}
}
