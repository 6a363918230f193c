package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"policy-memo/api/internal/chat"
)

type Backend struct {
	APIKey string
	Model  string
}

var _ chat.Backend = (*Backend)(nil)

func New(apiKey, model string) *Backend {
	return &Backend{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (b *Backend) Name() string     { return "gemini" }
func (b *Backend) GetModel() string { return b.Model }

// Chat returns {"message":{"content":[...parts]}} so the text parts of the
// first candidate go through the same decoder as every other backend.
func (b *Backend) Chat(ctx context.Context, prompt string, opts chat.Options) (any, error) {
	if b.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(b.APIKey))
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	model := b.Model
	if m := strings.TrimSpace(opts.Model); m != "" {
		model = m
	}
	m := cl.GenerativeModel(model)
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", model, err)
	}
	return toEnvelope(resp), nil
}

func toEnvelope(resp *genai.GenerateContentResponse) map[string]any {
	parts := []any{}
	if resp != nil {
		for _, c := range resp.Candidates {
			if c == nil || c.Content == nil {
				continue
			}
			for _, p := range c.Content.Parts {
				if t, ok := p.(genai.Text); ok {
					parts = append(parts, string(t))
				}
			}
			break
		}
	}
	return map[string]any{"message": map[string]any{"content": parts}}
}
