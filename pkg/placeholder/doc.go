// Package placeholder implements the lightweight {{token}} substitution used
// for per-recipient personalization of subjects, bodies and footers.
//
// Unlike text/template, unknown tokens are left in place so that a typo in a
// mailout never produces an empty hole in a delivered email:
//
//	placeholder.Apply("Hi {{name}}, {{typo}}", map[string]string{"name": "Ann"})
//	// "Hi Ann, {{typo}}"
//
// Token keys are matched case-insensitively and whitespace inside the braces
// is tolerated ({{ NAME }} resolves the "name" variable).
package placeholder
