package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"

	"policy-memo/api/internal/chat"
)

func TestToEnvelopeFirstCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("TO: Council\n"), genai.Text("RE: Zoning")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	env := chat.Decode(toEnvelope(resp))
	assert.Equal(t, chat.ShapeMessageParts, env.Shape)
	assert.Equal(t, "TO: Council\nRE: Zoning", env.Text)
}

func TestToEnvelopeEmpty(t *testing.T) {
	assert.Equal(t, "", chat.ExtractText(toEnvelope(nil)))
	assert.Equal(t, "", chat.ExtractText(toEnvelope(&genai.GenerateContentResponse{})))
}
