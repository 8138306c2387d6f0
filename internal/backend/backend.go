// Package backend defines the gateway contract to the hosted text-analysis
// service and its implementations. The service is an opaque collaborator:
// given document text and optional context it returns candidate suggestions
// or tool-specific JSON. Nothing here is trusted; validation happens in the
// suggest package.
package backend

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JackWReid/redline/internal/suggest"
)

// Tool names accepted by RunTool. Proofread is the only tool with a typed
// result; the rest return opaque JSON consumed by display layers.
const (
	ToolProofread     = "proofread"
	ToolRewrite       = "rewrite"
	ToolParaphrase    = "paraphrase"
	ToolHumanize      = "humanize"
	ToolDetectAI      = "detect-ai"
	ToolFactCheck     = "fact-check"
	ToolFindCitations = "find-citations"
	ToolGrade         = "grade"
	ToolReactions     = "reader-reactions"
	ToolChat          = "chat"
)

// Request is a proofread request. AcceptedEdits carries the recent
// acceptance history so the service avoids re-suggesting handled edits;
// Strict asks it to skip low-value style and clarity nitpicks.
type Request struct {
	Tool          string                 `json:"tool"`
	Text          string                 `json:"text"`
	Strict        bool                   `json:"strict"`
	AcceptedEdits []suggest.AcceptedEdit `json:"acceptedEdits,omitempty"`
}

// Result is a proofread response. OverallScore is optional; the engine falls
// back to a heuristic when it is absent.
type Result struct {
	Suggestions  []suggest.Candidate `json:"suggestions"`
	OverallScore *float64            `json:"overallScore,omitempty"`
}

// Provider is the uniform async contract every backend implements. Proofread
// powers the reconciliation engine; RunTool is the opaque passthrough for the
// remaining tools.
type Provider interface {
	Proofread(ctx context.Context, req Request) (*Result, error)
	RunTool(ctx context.Context, tool, text string, extra map[string]any) (json.RawMessage, error)
}

var tracer = otel.Tracer("redline/backend")

// startSpan opens a trace span for a backend call. Tracing is a side effect
// only; with no SDK installed the span is a no-op.
func startSpan(ctx context.Context, name, tool string, strict bool, textLen int) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("backend.tool", tool),
		attribute.Bool("backend.strict", strict),
		attribute.Int("backend.text_length", textLen),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// stripFences removes a Markdown code fence around a model response, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseProofread decodes a proofread response body. It tolerates either the
// full {"suggestions": [...], "overallScore": n} object or a bare candidate
// array, with or without code fences.
func parseProofread(body string) (*Result, error) {
	body = stripFences(body)
	if strings.HasPrefix(body, "[") {
		var cands []suggest.Candidate
		if err := json.Unmarshal([]byte(body), &cands); err != nil {
			return nil, err
		}
		return &Result{Suggestions: cands}, nil
	}
	var res Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
