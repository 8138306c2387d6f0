package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/sajari/fuzzy"
	"go.uber.org/zap"

	"github.com/JackWReid/redline/internal/suggest"
)

// LocalProvider is an offline backend backed by a fuzzy spelling model. It
// only ever produces spelling suggestions, but it satisfies the full contract
// so the engine and CLI run without network access. It also serves as the
// development stand-in for the hosted service.
type LocalProvider struct {
	model *fuzzy.Model
	log   *zap.Logger
}

// NewLocalProvider trains a provider on the given word list. An empty list
// yields a provider that never flags anything.
func NewLocalProvider(words []string, log *zap.Logger) *LocalProvider {
	if log == nil {
		log = zap.NewNop()
	}
	model := fuzzy.NewModel()
	// Depth 2 trades accuracy for training speed on large dictionaries.
	model.SetDepth(2)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w != "" {
			model.TrainWord(strings.ToLower(w))
		}
	}
	return &LocalProvider{model: model, log: log}
}

// NewLocalProviderFromFile trains a provider from a newline-separated
// dictionary file.
func NewLocalProviderFromFile(path string, log *zap.Logger) (*LocalProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("local: open dictionary: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("local: read dictionary: %w", err)
	}
	return NewLocalProvider(words, log), nil
}

// Proofread checks every word of the document against the model and emits
// spelling candidates with byte spans. The strict flag has no effect here;
// spelling is never suppressed.
func (p *LocalProvider) Proofread(ctx context.Context, req Request) (*Result, error) {
	_, span := startSpan(ctx, "backend.proofread", ToolProofread, req.Strict, len(req.Text))
	defer endSpan(span, nil)

	var cands []suggest.Candidate
	for _, w := range extractWords(req.Text) {
		if skipWord(w.word) {
			continue
		}
		lower := strings.ToLower(w.word)
		correction := p.model.SpellCheck(lower)
		if correction == "" || correction == lower {
			continue
		}
		cands = append(cands, suggest.Candidate{
			Type:        string(suggest.KindSpelling),
			Original:    w.word,
			Replacement: matchCase(correction, w.word),
			Message:     fmt.Sprintf("%q may be a misspelling of %q", w.word, correction),
			StartIndex:  w.start,
			EndIndex:    w.end,
		})
	}
	return &Result{Suggestions: cands}, nil
}

// RunTool is unsupported offline.
func (p *LocalProvider) RunTool(ctx context.Context, tool, text string, extra map[string]any) (json.RawMessage, error) {
	return nil, fmt.Errorf("local: tool %q requires a hosted backend", tool)
}

// wordSpan is a word and its byte span within the document.
type wordSpan struct {
	word  string
	start int
	end   int
}

// extractWords tokenizes the document into words with byte spans. Words are
// sequences of letters and embedded apostrophes.
func extractWords(text string) []wordSpan {
	var words []wordSpan

	inWord := false
	var start int
	for i, r := range text {
		isLetter := unicode.IsLetter(r)
		isApostrophe := r == '\''

		if isLetter || (isApostrophe && inWord) {
			if !inWord {
				start = i
				inWord = true
			}
			continue
		}
		if inWord {
			words = append(words, wordSpan{word: text[start:i], start: start, end: i})
			inWord = false
		}
	}
	if inWord {
		words = append(words, wordSpan{word: text[start:], start: start, end: len(text)})
	}
	return words
}

// skipWord filters words the fuzzy model handles badly: very short words and
// all-uppercase acronyms.
func skipWord(word string) bool {
	runes := []rune(word)
	if len(runes) <= 2 {
		return true
	}
	for _, r := range runes {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// matchCase carries an initial capital from the source word onto the
// correction.
func matchCase(correction, source string) string {
	if correction == "" || source == "" {
		return correction
	}
	first := []rune(source)[0]
	if unicode.IsUpper(first) {
		r := []rune(correction)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return correction
}
