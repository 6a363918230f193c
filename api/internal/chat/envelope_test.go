package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextShapes(t *testing.T) {
	cases := []struct {
		name  string
		in    any
		want  string
		shape Shape
	}{
		{"bare string", "hello", "hello", ShapeString},
		{"message content string", map[string]any{"message": map[string]any{"content": "X"}}, "X", ShapeMessageContent},
		{"message content parts", map[string]any{"message": map[string]any{"content": []any{map[string]any{"text": "A"}, "B"}}}, "AB", ShapeMessageParts},
		{"message content parts trimmed", map[string]any{"message": map[string]any{"content": []any{"  A", map[string]any{"type": "image"}, "B \n"}}}, "AB", ShapeMessageParts},
		{"message text", map[string]any{"message": map[string]any{"text": "M"}}, "M", ShapeMessageText},
		{"top level text", map[string]any{"text": "T"}, "T", ShapeText},
		{"choice text", map[string]any{"choices": []any{map[string]any{"text": "Y"}}}, "Y", ShapeChoice},
		{"choice message content", map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": "Z"}}}}, "Z", ShapeChoice},
		{"nil", nil, "", ShapeNone},
		{"number", 42, "", ShapeNone},
		{"empty object", map[string]any{}, "", ShapeNone},
		{"empty choices", map[string]any{"choices": []any{}}, "", ShapeNone},
		{"blank string", "   ", "", ShapeNone},
		{"slice", []any{"a"}, "", ShapeNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := Decode(tc.in)
			assert.Equal(t, tc.want, env.Text)
			assert.Equal(t, tc.shape, env.Shape)
			assert.Equal(t, tc.want, ExtractText(tc.in))
		})
	}
}

func TestDecodePriority(t *testing.T) {
	in := map[string]any{
		"message": map[string]any{"content": "", "text": "from message"},
		"text":    "from top",
		"choices": []any{map[string]any{"text": "from choices"}},
	}
	env := Decode(in)
	assert.Equal(t, ShapeMessageText, env.Shape)
	assert.Equal(t, "from message", env.Text)

	delete(in, "message")
	assert.Equal(t, "from top", ExtractText(in))

	delete(in, "text")
	assert.Equal(t, "from choices", ExtractText(in))
}

func TestDecodeWhitespace(t *testing.T) {
	in := map[string]any{
		"message": map[string]any{"content": " \n\t", "text": "  padded  "},
		"text":    "top",
	}
	env := Decode(in)
	assert.Equal(t, ShapeMessageText, env.Shape)
	assert.Equal(t, "  padded  ", env.Text)

	assert.Equal(t, Envelope{Shape: ShapeString, Text: " keep \n"}, Decode(" keep \n"))
	assert.Equal(t, Envelope{}, Decode("\n\n"))
}

func TestDecodeRawJSON(t *testing.T) {
	raw := json.RawMessage(`{"choices":[{"index":0,"message":{"role":"assistant","content":"memo body"}}]}`)
	assert.Equal(t, "memo body", ExtractText(raw))
	assert.Equal(t, "", ExtractText([]byte("not json")))
}

func TestDecodeTypedStruct(t *testing.T) {
	type message struct {
		Content string `json:"content"`
	}
	type envelope struct {
		Message message `json:"message"`
	}
	assert.Equal(t, "typed", ExtractText(&envelope{Message: message{Content: "typed"}}))
	assert.Equal(t, "", ExtractText((*envelope)(nil)))
}
