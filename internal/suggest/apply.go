package suggest

import "sort"

// Apply applies a single suggestion to the current text. The suggestion is
// re-anchored first; if its original text no longer exists it is dropped and
// the text comes back unchanged. Every other pending suggestion whose span
// starts strictly after the edit point is shifted by the length delta of the
// replacement; spans at or before the edit point are left alone and settle on
// their own later apply or re-analysis.
//
// The applied (or dropped) suggestion is removed from the returned pending
// set. applied reports whether the text actually changed.
func Apply(s Suggestion, current string, pending []Suggestion) (newText string, remaining []Suggestion, applied bool) {
	start, end, ok := Reanchor(s, current)
	if !ok {
		return current, removeByID(pending, s.ID), false
	}

	newText = current[:start] + s.Replacement + current[end:]
	delta := len(s.Replacement) - (end - start)

	remaining = make([]Suggestion, 0, len(pending))
	for _, p := range pending {
		if p.ID == s.ID {
			continue
		}
		if p.Start > start {
			p.Start += delta
			p.End += delta
		}
		remaining = append(remaining, p)
	}
	return newText, remaining, true
}

// ApplyAll applies every pending suggestion in descending start order, so
// earlier offsets stay valid without shifting as later-in-text edits land
// first. A suggestion that fails to re-anchor at its turn is skipped; it does
// not abort the batch. The caller is expected to discard the entire pending
// set afterwards regardless of skips.
func ApplyAll(current string, pending []Suggestion) (newText string, applied []Suggestion) {
	ordered := make([]Suggestion, len(pending))
	copy(ordered, pending)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	newText = current
	for _, s := range ordered {
		start, end, ok := Reanchor(s, newText)
		if !ok {
			continue
		}
		newText = newText[:start] + s.Replacement + newText[end:]
		applied = append(applied, s)
	}
	return newText, applied
}

func removeByID(pending []Suggestion, id string) []Suggestion {
	out := make([]Suggestion, 0, len(pending))
	for _, p := range pending {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
