package suggest

import "strings"

// defaultMessage is used when the backend omits an explanation.
const defaultMessage = "Suggested edit"

// Validate filters raw backend candidates against the exact text they were
// computed for and normalises the survivors into Suggestion records. The
// backend is untrusted: candidates with missing fields, no-op edits, spans
// outside the source, or claimed originals that do not plausibly match the
// text at the claimed span are silently dropped. When strict is set, style
// and clarity candidates are dropped as well; that rule is what drives
// convergence toward an empty board across acceptance passes.
//
// Output preserves backend order. Validate has no side effects beyond id
// generation.
func Validate(raw []Candidate, source string, strict bool) []Suggestion {
	var out []Suggestion
	for _, c := range raw {
		if c.Original == "" || c.Replacement == "" {
			continue
		}
		if strings.TrimSpace(c.Original) == strings.TrimSpace(c.Replacement) {
			continue
		}
		if c.StartIndex < 0 || c.EndIndex > len(source) || c.EndIndex <= c.StartIndex {
			continue
		}
		if !plausibleMatch(source[c.StartIndex:c.EndIndex], c.Original) {
			continue
		}

		kind := ParseKind(c.Type)
		if strict && kind.lowValue() {
			continue
		}

		msg := c.Message
		if msg == "" {
			msg = defaultMessage
		}

		out = append(out, Suggestion{
			ID:          newID(),
			Kind:        kind,
			Original:    c.Original,
			Replacement: c.Replacement,
			Message:     msg,
			Start:       c.StartIndex,
			End:         c.EndIndex,
		})
	}
	return out
}

// plausibleMatch accepts an exact case-insensitive match, or tolerates minor
// backend misalignment: the first few characters of either string appearing
// (case-insensitively) inside the other.
func plausibleMatch(actual, claimed string) bool {
	a := strings.ToLower(actual)
	b := strings.ToLower(claimed)
	if a == b {
		return true
	}
	return strings.Contains(b, prefix(a, 3)) || strings.Contains(a, prefix(b, 3))
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
