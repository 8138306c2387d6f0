package suggest

// AcceptedEdit records one accepted suggestion. A bounded window of these is
// sent back to the backend as context, discouraging it from re-suggesting
// edits the user already handled or deliberately reverted.
type AcceptedEdit struct {
	Kind        Kind   `json:"kind"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Message     string `json:"message,omitempty"`
}

// EditMemory is a bounded, ordered record of the most recently accepted
// edits. Oldest entries are evicted once the cap is reached.
type EditMemory struct {
	max   int
	edits []AcceptedEdit
}

// NewEditMemory creates an EditMemory keeping at most max entries.
func NewEditMemory(max int) *EditMemory {
	if max <= 0 {
		max = 1
	}
	return &EditMemory{max: max}
}

// Record appends an accepted edit, evicting the oldest entry when full.
func (m *EditMemory) Record(e AcceptedEdit) {
	m.edits = append(m.edits, e)
	if len(m.edits) > m.max {
		m.edits = m.edits[len(m.edits)-m.max:]
	}
}

// RecordSuggestion records an applied suggestion.
func (m *EditMemory) RecordSuggestion(s Suggestion) {
	m.Record(AcceptedEdit{
		Kind:        s.Kind,
		Original:    s.Original,
		Replacement: s.Replacement,
		Message:     s.Message,
	})
}

// Edits returns a copy of the remembered edits, oldest first.
func (m *EditMemory) Edits() []AcceptedEdit {
	out := make([]AcceptedEdit, len(m.edits))
	copy(out, m.edits)
	return out
}

// Len returns the number of remembered edits.
func (m *EditMemory) Len() int { return len(m.edits) }

// Reset discards all remembered edits.
func (m *EditMemory) Reset() { m.edits = nil }
