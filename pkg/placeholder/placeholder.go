package placeholder

import (
	"regexp"
	"strings"
)

// tokenPattern matches {{ key }} with optional whitespace inside the braces.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// nameSeparators matches runs of the characters commonly used to join words
// in an email local part.
var nameSeparators = regexp.MustCompile(`[._-]+`)

// Apply substitutes every {{key}} token in template with the matching value
// from vars. Key lookup is case-insensitive; tokens without a matching
// variable are left verbatim, braces included. An empty template yields an
// empty string.
func Apply(template string, vars map[string]string) string {
	if template == "" {
		return ""
	}

	lowered := make(map[string]string, len(vars))
	for k, v := range vars {
		lowered[strings.ToLower(k)] = v
	}

	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := strings.ToLower(tokenPattern.FindStringSubmatch(token)[1])
		if v, ok := lowered[key]; ok {
			return v
		}
		return token
	})
}

// ResolveName picks the display name for a recipient: the explicit name when
// present and non-blank, otherwise the local part of the email address with
// separator runs collapsed to single spaces ("jane.a-doe@x.io" -> "jane a doe").
func ResolveName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	local, _, found := strings.Cut(email, "@")
	if !found {
		local = email
	}
	return strings.TrimSpace(nameSeparators.ReplaceAllString(local, " "))
}
