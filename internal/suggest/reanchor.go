package suggest

import "strings"

// Reanchor relocates a suggestion's span against the current document text,
// which may have changed since the suggestion was produced. The unchanged
// span is the fast path; otherwise the first case-insensitive occurrence of
// the original text wins. ok is false when the original text no longer exists
// anywhere in the document, in which case the caller must drop the
// suggestion.
func Reanchor(s Suggestion, current string) (start, end int, ok bool) {
	if s.Start >= 0 && s.End <= len(current) && s.Start < s.End &&
		strings.EqualFold(current[s.Start:s.End], s.Original) {
		return s.Start, s.End, true
	}

	i := strings.Index(strings.ToLower(current), strings.ToLower(s.Original))
	if i < 0 {
		return 0, 0, false
	}
	return i, i + len(s.Original), true
}

// Reconcile re-anchors every suggestion against the current text, updating
// spans that moved and dropping the ones that no longer locate. It keeps the
// pending set honouring the invariant that every span refers to text matching
// its original.
func Reconcile(current string, pending []Suggestion) []Suggestion {
	out := pending[:0]
	for _, s := range pending {
		start, end, ok := Reanchor(s, current)
		if !ok {
			continue
		}
		s.Start, s.End = start, end
		out = append(out, s)
	}
	return out
}
