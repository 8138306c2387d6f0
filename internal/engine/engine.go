// Package engine implements the incremental suggestion-reconciliation
// scheduler. It decides when to re-query the backend as the document changes,
// discards stale out-of-order responses, keeps pending suggestion offsets
// consistent through edits, and escalates strictness across acceptance passes
// so the board converges toward empty.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JackWReid/redline/internal/backend"
	"github.com/JackWReid/redline/internal/stats"
	"github.com/JackWReid/redline/internal/suggest"
)

// state is the scheduler phase. Transitions happen only under the engine
// mutex, at timer fire, response arrival, or user action.
type state int

const (
	stateIdle state = iota
	stateDebouncing
	stateAwaiting
)

const (
	defaultDebounce        = 1200 * time.Millisecond
	defaultPostAcceptDelay = 150 * time.Millisecond
	defaultMaxSuggestions  = 40
	editMemorySize         = 30

	// Heuristic scores when the backend omits one.
	scoreClean   = 100.0
	scoreFlagged = 85.0
)

// Config tunes the scheduler.
type Config struct {
	// Debounce is the quiet interval after a text change before an analysis
	// request is issued.
	Debounce time.Duration

	// PostAcceptDelay is the short, non-debounced delay before the strict
	// pass that follows a full acceptance cycle.
	PostAcceptDelay time.Duration

	// RequestTimeout bounds a single backend call. Zero disables the
	// deadline.
	RequestTimeout time.Duration

	// MaxSuggestions caps how many validated suggestions one pass may
	// surface.
	MaxSuggestions int
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = defaultDebounce
	}
	if c.PostAcceptDelay <= 0 {
		c.PostAcceptDelay = defaultPostAcceptDelay
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = defaultMaxSuggestions
	}
	return c
}

// Engine owns the analysis state for one open document. All mutation is
// serialized by a single mutex; backend calls run on their own goroutines and
// re-enter through handleResponse, where anything but the latest request id
// is discarded.
type Engine struct {
	provider backend.Provider
	clock    Clock
	log      *zap.Logger
	cfg      Config

	mu           sync.Mutex
	st           state
	text         string
	docStats     stats.Stats
	pending      []suggest.Suggestion
	score        float64
	strictness   int
	memory       *suggest.EditMemory
	lastAnalyzed string
	hasAnalyzed  bool
	reqID        uint64
	timer        Timer
	stopped      bool

	// onChange, when set, fires outside the lock after every observable
	// state change.
	onChange func()
}

// New creates an Engine for a fresh document. A nil clock means wall-clock
// time; a nil logger discards logs.
func New(provider backend.Provider, cfg Config, clock Clock, log *zap.Logger) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		provider: provider,
		clock:    clock,
		log:      log,
		cfg:      cfg.withDefaults(),
		score:    scoreClean,
		memory:   suggest.NewEditMemory(editMemorySize),
	}
}

// SetOnChange registers a callback fired after every observable state change.
// It must be set before the engine is first used.
func (e *Engine) SetOnChange(fn func()) { e.onChange = fn }

// SetText replaces the document text, recomputes stats synchronously, and
// restarts the debounce window.
func (e *Engine) SetText(text string) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.text = text
	e.docStats = stats.Compute(text)
	e.stopTimerLocked()
	e.st = stateDebouncing
	e.timer = e.clock.AfterFunc(e.cfg.Debounce, e.debounceFired)
	e.mu.Unlock()
	e.notify()
}

// debounceFired runs when the quiet interval elapses without further typing.
func (e *Engine) debounceFired() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if e.hasAnalyzed && e.text == e.lastAnalyzed {
		// The user typed back to an already-analyzed state; nothing to do.
		e.st = stateIdle
		e.mu.Unlock()
		e.notify()
		return
	}
	e.beginAnalysisLocked(e.strictness > 0)
	e.mu.Unlock()
	e.notify()
}

// beginAnalysisLocked snapshots the document, bumps the request id, and
// issues the backend call on its own goroutine. Caller holds the mutex.
func (e *Engine) beginAnalysisLocked(strict bool) {
	e.lastAnalyzed = e.text
	e.hasAnalyzed = true
	e.reqID++
	id := e.reqID
	req := backend.Request{
		Tool:          backend.ToolProofread,
		Text:          e.text,
		Strict:        strict,
		AcceptedEdits: e.memory.Edits(),
	}
	e.st = stateAwaiting
	e.log.Debug("analysis issued",
		zap.Uint64("request_id", id),
		zap.Bool("strict", strict),
		zap.Int("text_length", len(req.Text)),
	)

	go func() {
		ctx := context.Background()
		if e.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.cfg.RequestTimeout)
			defer cancel()
		}
		res, err := e.provider.Proofread(ctx, req)
		e.handleResponse(id, req, res, err)
	}()
}

// handleResponse is the single re-entry point for backend results. Only the
// response carrying the latest request id may mutate state; earlier in-flight
// responses are discarded unconditionally even when they complete later.
func (e *Engine) handleResponse(id uint64, req backend.Request, res *backend.Result, err error) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if id != e.reqID {
		e.log.Debug("stale response discarded", zap.Uint64("request_id", id), zap.Uint64("latest", e.reqID))
		e.mu.Unlock()
		return
	}
	if e.st == stateAwaiting {
		// A superseded response may arrive while the next edit is already
		// debouncing; leave that phase alone.
		e.st = stateIdle
	}

	if err != nil {
		// Existing suggestions stay; the next text change or manual
		// re-analyze retries.
		e.log.Warn("analysis failed", zap.Uint64("request_id", id), zap.Error(err))
		e.mu.Unlock()
		e.notify()
		return
	}

	if e.text != req.Text {
		// The document moved on while the call was in flight; these
		// suggestions anchor to a state that no longer exists.
		e.log.Debug("superseded response discarded", zap.Uint64("request_id", id))
		e.mu.Unlock()
		e.notify()
		return
	}

	sugs := suggest.Validate(res.Suggestions, req.Text, req.Strict)
	if len(sugs) > e.cfg.MaxSuggestions {
		sugs = sugs[:e.cfg.MaxSuggestions]
	}
	e.pending = sugs

	switch {
	case res.OverallScore != nil:
		e.score = *res.OverallScore
	case len(sugs) == 0:
		e.score = scoreClean
	default:
		e.score = scoreFlagged
	}

	e.log.Debug("analysis applied",
		zap.Uint64("request_id", id),
		zap.Int("suggestions", len(sugs)),
		zap.Float64("score", e.score),
	)
	e.mu.Unlock()
	e.notify()
}

// ApplySuggestion applies the identified suggestion to the document. It
// reports false when the id is unknown or the suggestion could no longer be
// located; in the latter case the suggestion is dropped silently. Emptying
// the board schedules the strict follow-up pass.
func (e *Engine) ApplySuggestion(id string) bool {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return false
	}
	var target *suggest.Suggestion
	for i := range e.pending {
		if e.pending[i].ID == id {
			target = &e.pending[i]
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		return false
	}
	s := *target

	newText, remaining, applied := suggest.Apply(s, e.text, e.pending)
	e.text = newText
	e.pending = suggest.Reconcile(e.text, remaining)
	e.docStats = stats.Compute(e.text)
	if applied {
		e.memory.RecordSuggestion(s)
	}
	if len(e.pending) == 0 {
		e.schedulePostAcceptPassLocked()
	}
	e.mu.Unlock()
	e.notify()
	return applied
}

// DismissSuggestion drops a suggestion without editing the document.
// Dismissing the last one counts as completing the pass.
func (e *Engine) DismissSuggestion(id string) bool {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return false
	}
	before := len(e.pending)
	kept := e.pending[:0]
	for _, p := range e.pending {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	e.pending = kept
	removed := len(e.pending) != before
	if removed && len(e.pending) == 0 {
		e.schedulePostAcceptPassLocked()
	}
	e.mu.Unlock()
	if removed {
		e.notify()
	}
	return removed
}

// AcceptAll applies every pending suggestion in descending offset order,
// clears the board, and immediately triggers a strict analysis pass.
// Suggestions that fail to re-anchor at their turn are skipped, not errors.
func (e *Engine) AcceptAll() {
	e.mu.Lock()
	if e.stopped || len(e.pending) == 0 {
		e.mu.Unlock()
		return
	}
	newText, applied := suggest.ApplyAll(e.text, e.pending)
	e.text = newText
	e.pending = nil
	e.docStats = stats.Compute(e.text)
	for _, s := range applied {
		e.memory.RecordSuggestion(s)
	}
	e.strictness++
	e.hasAnalyzed = false
	e.lastAnalyzed = ""
	e.stopTimerLocked()
	e.beginAnalysisLocked(true)
	e.mu.Unlock()
	e.notify()
}

// Reanalyze forces an immediate analysis pass without touching strictness,
// even when the text has not changed since the last pass.
func (e *Engine) Reanalyze() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.hasAnalyzed = false
	e.lastAnalyzed = ""
	e.stopTimerLocked()
	e.beginAnalysisLocked(e.strictness > 0)
	e.mu.Unlock()
	e.notify()
}

// Clear resets the whole session: empty document, no suggestions, strictness
// back to zero, memory wiped, score back to clean. No backend call is made
// and any in-flight response becomes stale.
func (e *Engine) Clear() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	e.reqID++ // orphan any in-flight request
	e.st = stateIdle
	e.text = ""
	e.docStats = stats.Stats{}
	e.pending = nil
	e.score = scoreClean
	e.strictness = 0
	e.hasAnalyzed = false
	e.lastAnalyzed = ""
	e.memory.Reset()
	e.mu.Unlock()
	e.notify()
}

// Stop shuts the engine down. Further operations are no-ops; in-flight
// responses are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopTimerLocked()
	e.reqID++
	e.stopped = true
	e.mu.Unlock()
}

// schedulePostAcceptPassLocked runs after the pending set empties through
// acceptance or dismissal: strictness escalates and a minimally-delayed
// strict pass re-checks the document, forcing re-analysis even of unchanged
// text. Caller holds the mutex.
func (e *Engine) schedulePostAcceptPassLocked() {
	e.strictness++
	e.hasAnalyzed = false
	e.lastAnalyzed = ""
	e.stopTimerLocked()
	e.st = stateDebouncing
	e.timer = e.clock.AfterFunc(e.cfg.PostAcceptDelay, e.postAcceptFired)
}

func (e *Engine) postAcceptFired() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.beginAnalysisLocked(true)
	e.mu.Unlock()
	e.notify()
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Text returns the current document text.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// Suggestions returns a copy of the pending suggestions in backend order.
func (e *Engine) Suggestions() []suggest.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]suggest.Suggestion, len(e.pending))
	copy(out, e.pending)
	return out
}

// Stats returns the current document statistics.
func (e *Engine) Stats() stats.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.docStats
}

// Score returns the current overall document score.
func (e *Engine) Score() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// IsAnalyzing reports whether a backend request is in flight.
func (e *Engine) IsAnalyzing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st == stateAwaiting
}

// StrictnessLevel returns how many full acceptance cycles have completed.
func (e *Engine) StrictnessLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strictness
}
