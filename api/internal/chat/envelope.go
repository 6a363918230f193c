package chat

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Shape names the location an envelope's text was recovered from.
// The declaration order is the lookup priority.
type Shape int

const (
	ShapeNone           Shape = iota
	ShapeString               // "text"
	ShapeMessageContent       // {"message":{"content":"text"}}
	ShapeMessageParts         // {"message":{"content":["a",{"text":"b"}]}}
	ShapeMessageText          // {"message":{"text":"text"}}
	ShapeText                 // {"text":"text"}
	ShapeChoice               // {"choices":[{"message":{"content":"text"}}]} or {"choices":[{"text":"text"}]}
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeMessageContent:
		return "message.content"
	case ShapeMessageParts:
		return "message.content[]"
	case ShapeMessageText:
		return "message.text"
	case ShapeText:
		return "text"
	case ShapeChoice:
		return "choices[0]"
	default:
		return "none"
	}
}

// Envelope is the decoded form of a backend response.
type Envelope struct {
	Shape Shape
	Text  string
}

type candidate struct {
	shape Shape
	find  func(obj map[string]any) string
}

// candidates is walked top to bottom; the first non-empty text wins.
var candidates = []candidate{
	{ShapeMessageContent, func(obj map[string]any) string {
		s, _ := objectAt(obj, "message")["content"].(string)
		return s
	}},
	{ShapeMessageParts, func(obj map[string]any) string {
		parts, _ := objectAt(obj, "message")["content"].([]any)
		return joinParts(parts)
	}},
	{ShapeMessageText, func(obj map[string]any) string {
		s, _ := objectAt(obj, "message")["text"].(string)
		return s
	}},
	{ShapeText, func(obj map[string]any) string {
		s, _ := obj["text"].(string)
		return s
	}},
	{ShapeChoice, func(obj map[string]any) string {
		choices, _ := obj["choices"].([]any)
		if len(choices) == 0 {
			return ""
		}
		first, _ := choices[0].(map[string]any)
		if s, _ := objectAt(first, "message")["content"].(string); strings.TrimSpace(s) != "" {
			return s
		}
		s, _ := first["text"].(string)
		return s
	}},
}

// Decode classifies v and recovers its text. Values that match no known
// shape decode to ShapeNone with empty text. A string that is empty or only
// whitespace counts as a miss, both as a bare value and in any candidate
// field, so lookup moves on to the next shape. A single string field is
// returned untouched; content parts are joined and trimmed.
func Decode(v any) Envelope {
	v = normalize(v)
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return Envelope{}
		}
		return Envelope{Shape: ShapeString, Text: s}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Envelope{}
	}
	for _, c := range candidates {
		if s := c.find(obj); strings.TrimSpace(s) != "" {
			return Envelope{Shape: c.shape, Text: s}
		}
	}
	return Envelope{}
}

// ExtractText returns the text carried by a backend response, or "".
func ExtractText(v any) string {
	return Decode(v).Text
}

func objectAt(obj map[string]any, key string) map[string]any {
	if obj == nil {
		return nil
	}
	m, _ := obj[key].(map[string]any)
	return m
}

func joinParts(parts []any) string {
	var b strings.Builder
	for _, p := range parts {
		switch x := p.(type) {
		case string:
			b.WriteString(x)
		case map[string]any:
			if s, ok := x["text"].(string); ok {
				b.WriteString(s)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// normalize turns raw JSON and typed structs into the generic
// map[string]any / []any / string form the candidates understand.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, map[string]any:
		return x
	case json.RawMessage:
		return decodeRaw(x)
	case []byte:
		return decodeRaw(x)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Struct, reflect.Map:
		b, err := json.Marshal(rv.Interface())
		if err != nil {
			return nil
		}
		return decodeRaw(b)
	}
	return nil
}

func decodeRaw(b []byte) any {
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
