// Package suggest holds the suggestion data model and the pure edit algebra
// of the reconciliation engine: validating raw backend candidates,
// re-anchoring spans against a changed document, and applying replacements
// while keeping the remaining spans consistent.
package suggest

import "github.com/google/uuid"

// Kind classifies a suggestion. The set is closed; anything the backend sends
// outside it is normalised to KindGrammar.
type Kind string

const (
	KindGrammar     Kind = "grammar"
	KindSpelling    Kind = "spelling"
	KindClarity     Kind = "clarity"
	KindStyle       Kind = "style"
	KindPunctuation Kind = "punctuation"
)

// ParseKind maps a backend type string onto the closed Kind set.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindGrammar, KindSpelling, KindClarity, KindStyle, KindPunctuation:
		return Kind(s)
	default:
		return KindGrammar
	}
}

// lowValue reports whether the kind is suppressed on strict passes.
func (k Kind) lowValue() bool {
	return k == KindStyle || k == KindClarity
}

// Candidate is a raw suggestion as returned by the backend, before
// validation. Field names match the wire contract exactly.
type Candidate struct {
	Type        string `json:"type,omitempty"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Message     string `json:"message,omitempty"`
	StartIndex  int    `json:"startIndex"`
	EndIndex    int    `json:"endIndex"`
}

// Suggestion is a validated, canonical suggestion record. Start and End are
// byte offsets into the document text the suggestion was validated against,
// forming the half-open span [Start, End).
type Suggestion struct {
	ID          string
	Kind        Kind
	Original    string
	Replacement string
	Message     string
	Start       int
	End         int
}

// newID returns a fresh opaque suggestion id. Uniqueness is the only
// requirement.
func newID() string {
	return uuid.NewString()
}
