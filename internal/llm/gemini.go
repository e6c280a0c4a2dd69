package llm

import (
	"context"

	genai "google.golang.org/genai"
)

// acknowledgment is the canned "model" turn seeding the chat history, so the
// actual user message arrives after the model has nominally accepted the
// output contract.
const acknowledgment = "Understood. I will follow all instructions and output only valid JSON."

// GeminiClient is a thin wrapper around the official genai client. The API
// key is read from the environment by the genai client itself.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient creates a Gemini-backed gateway for the given model name.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// Name identifies the backing model for logs and the audit trail.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Complete sends the two-turn seed history (system text as a "user" turn,
// the canned acknowledgment as the "model" turn) followed by the user
// message, and returns the raw completion text.
func (g *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: system}}},
		{Role: "model", Parts: []*genai.Part{{Text: acknowledgment}}},
		{Role: "user", Parts: []*genai.Part{{Text: user}}},
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
