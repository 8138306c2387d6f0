package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultModel = "gpt-4o-mini"

const proofreadSystemPrompt = `You are a proofreading service. Given a document, return strictly valid JSON of the form
{"suggestions":[{"type":"...","original":"...","replacement":"...","message":"...","startIndex":0,"endIndex":0}],"overallScore":0}
where type is one of grammar, spelling, clarity, style, punctuation; startIndex and endIndex are byte offsets of the original text within the document; overallScore is 0-100. Return no prose, only JSON.`

// OpenAIProvider talks to the OpenAI chat-completions API. It is the hosted
// implementation of the backend contract.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAIProvider creates a provider for the given API key and model. An
// empty model falls back to a small default.
func NewOpenAIProvider(apiKey, model string, log *zap.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key not set")
	}
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}, nil
}

// Proofread sends the document for analysis and parses the suggestion list.
func (p *OpenAIProvider) Proofread(ctx context.Context, req Request) (*Result, error) {
	ctx, span := startSpan(ctx, "backend.proofread", ToolProofread, req.Strict, len(req.Text))
	var err error
	defer func() { endSpan(span, err) }()

	content, err := p.chat(ctx, proofreadSystemPrompt, buildProofreadPrompt(req))
	if err != nil {
		p.log.Warn("proofread call failed", zap.Error(err))
		return nil, err
	}

	res, perr := parseProofread(content)
	if perr != nil {
		err = fmt.Errorf("openai: malformed proofread response: %w", perr)
		p.log.Warn("proofread response unparseable", zap.Error(perr))
		return nil, err
	}
	return res, nil
}

// RunTool invokes one of the peripheral tools and returns its JSON result
// verbatim. Non-JSON model output is wrapped so callers always get JSON.
func (p *OpenAIProvider) RunTool(ctx context.Context, tool, text string, extra map[string]any) (json.RawMessage, error) {
	ctx, span := startSpan(ctx, "backend.tool", tool, false, len(text))
	var err error
	defer func() { endSpan(span, err) }()

	system := fmt.Sprintf("You are the %q tool of a writing assistant. Respond with strictly valid JSON only.", tool)
	prompt := text
	if len(extra) > 0 {
		if b, merr := json.Marshal(extra); merr == nil {
			prompt = fmt.Sprintf("%s\n\nOptions: %s", text, b)
		}
	}

	content, err := p.chat(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	body := stripFences(content)
	if json.Valid([]byte(body)) {
		return json.RawMessage(body), nil
	}
	wrapped, err := json.Marshal(map[string]string{"output": body})
	if err != nil {
		return nil, err
	}
	return wrapped, nil
}

func (p *OpenAIProvider) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildProofreadPrompt renders the request, including the strictness flag and
// the recent acceptance history the service should not re-suggest against.
func buildProofreadPrompt(req Request) string {
	var b strings.Builder
	if req.Strict {
		b.WriteString("Strict pass: report only grammar, spelling, and punctuation problems. Skip style and clarity nitpicks.\n")
	}
	if len(req.AcceptedEdits) > 0 {
		b.WriteString("The user already accepted these edits; do not suggest them again or suggest reverting them:\n")
		for _, e := range req.AcceptedEdits {
			fmt.Fprintf(&b, "- [%s] %q -> %q\n", e.Kind, e.Original, e.Replacement)
		}
	}
	b.WriteString("Document:\n")
	b.WriteString(req.Text)
	return b.String()
}
