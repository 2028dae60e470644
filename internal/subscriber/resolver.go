package subscriber

import (
	"regexp"
	"sort"
	"strings"
)

// emailShape is a deliberately loose structural check: something before the
// @, a domain with at least one dot, no whitespace. The provider remains the
// real validator; this only weeds out rows that could never be addresses.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address has a plausible local@domain.tld
// shape.
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// Resolve produces the final send list from raw records: normalize, drop
// empties, deduplicate keeping the first occurrence, filter on shape, and
// sort ascending by email so send order is deterministic across runs.
func Resolve(records []Recipient) []Recipient {
	seen := make(map[string]struct{}, len(records))
	resolved := make([]Recipient, 0, len(records))

	for _, rec := range records {
		email := NormalizeEmail(rec.Email)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}

		if !ValidEmail(email) {
			continue
		}

		rec.Email = email
		resolved = append(resolved, rec)
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Email < resolved[j].Email
	})

	return resolved
}
