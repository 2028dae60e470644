package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/mailout/pkg/unsubtoken"
)

var stripTags = bluemonday.StrictPolicy()

// buildFooter composes the footer pair for one recipient: the optional
// custom part first, then the compliance block with the signed unsubscribe
// link. The compliance block cannot be suppressed by configuration.
func buildFooter(cfg FooterConfig, email string) (string, string, error) {
	token, err := unsubtoken.Create(email, cfg.UnsubscribeSecret)
	if err != nil {
		return "", "", err
	}
	unsubURL := cfg.UnsubscribeBaseURL + "?token=" + url.QueryEscape(token)

	complianceHTML := fmt.Sprintf(
		"<hr><p>%s — %s</p><p><a href=%q>Unsubscribe</a></p>",
		html.EscapeString(cfg.OrgName), html.EscapeString(cfg.OrgAddress), unsubURL,
	)
	complianceText := fmt.Sprintf(
		"\n--\n%s — %s\nUnsubscribe: %s",
		cfg.OrgName, cfg.OrgAddress, unsubURL,
	)

	customHTML, customText, err := customFooter(cfg)
	if err != nil {
		return "", "", err
	}

	htmlFooter := complianceHTML
	if customHTML != "" {
		htmlFooter = customHTML + "\n" + complianceHTML
	}
	textFooter := complianceText
	if customText != "" {
		textFooter = customText + "\n" + complianceText
	}

	return htmlFooter, textFooter, nil
}

// customFooter resolves the configured custom footer into both variants.
// Markdown wins over raw HTML; a text-only footer is escaped into a
// paragraph for the HTML variant.
func customFooter(cfg FooterConfig) (string, string, error) {
	switch {
	case cfg.CustomMarkdown != "":
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(cfg.CustomMarkdown), &buf); err != nil {
			return "", "", errors.Join(ErrFooterNotConfigured, err)
		}
		rendered := strings.TrimSpace(buf.String())
		text := cfg.CustomText
		if text == "" {
			text = textFromHTML(rendered)
		}
		return rendered, text, nil
	case cfg.CustomHTML != "":
		text := cfg.CustomText
		if text == "" {
			text = textFromHTML(cfg.CustomHTML)
		}
		return cfg.CustomHTML, text, nil
	case cfg.CustomText != "":
		return "<p>" + html.EscapeString(cfg.CustomText) + "</p>", cfg.CustomText, nil
	default:
		return "", "", nil
	}
}

// textFromHTML derives a plain-text rendition by stripping all markup.
func textFromHTML(s string) string {
	stripped := stripTags.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
