package memo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"policy-memo/api/internal/util"
)

const (
	PlaceholderResponse      = "[No response generated]"
	PlaceholderReference     = "[No reference generated]"
	EvaluationParseErrorNote = "Evaluation failed: could not parse evaluator output as JSON."
)

// Invoker sends one prompt to a chat backend and returns the reply text.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Service builds the memo prompts and shapes the replies. It holds no
// per-call state and is safe for concurrent use.
type Service struct {
	inv    Invoker
	Now    func() time.Time
	Logger *log.Logger
}

func NewService(inv Invoker) *Service {
	return &Service{inv: inv, Now: time.Now}
}

// GenerateResponse drafts a memo for t.
func (s *Service) GenerateResponse(ctx context.Context, t Task) (string, error) {
	text, err := s.inv.Invoke(ctx, responsePrompt(t, s.now()))
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return PlaceholderResponse, nil
	}
	return text, nil
}

// Evaluate scores responseText against r. Output that cannot be read as a
// JSON object yields a Review carrying only EvaluationParseErrorNote.
func (s *Service) Evaluate(ctx context.Context, t Task, r Rubric, responseText string) (Review, error) {
	text, err := s.inv.Invoke(ctx, evaluationPrompt(t, r, responseText))
	if err != nil {
		return Review{}, fmt.Errorf("evaluate: %w", err)
	}

	obj, err := parseEvaluation(text)
	if err != nil {
		s.logger().Printf("[ERROR] evaluate: %v; raw=%q", err, util.Truncate(text, 512))
		return Review{Notes: EvaluationParseErrorNote}, nil
	}
	return reviewFromObject(obj), nil
}

// GenerateReference rewrites original in style st. An unknown style is
// rejected before the backend is called.
func (s *Service) GenerateReference(ctx context.Context, t Task, original string, st Style) (string, error) {
	guidance, ok := st.Guidance()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, string(st))
	}
	text, err := s.inv.Invoke(ctx, referencePrompt(t, original, st, guidance))
	if err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return PlaceholderReference, nil
	}
	return text, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// parseEvaluation strips code fences and decodes a JSON object. Text that
// looks like an object but is malformed (trailing commas, single quotes,
// truncated closing braces) gets one pass through jsonrepair.
func parseEvaluation(text string) (map[string]any, error) {
	body := util.StripCodeFences(text)
	var obj map[string]any
	err := json.Unmarshal([]byte(body), &obj)
	if err == nil && obj != nil {
		return obj, nil
	}
	if !strings.HasPrefix(body, "{") {
		if err == nil {
			err = fmt.Errorf("not a JSON object")
		}
		return nil, err
	}
	fixed, rerr := jsonrepair.JSONRepair(body)
	if rerr != nil {
		return nil, fmt.Errorf("bad JSON: %w (repair: %v)", err, rerr)
	}
	obj = nil
	if err := json.Unmarshal([]byte(fixed), &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("bad JSON after repair: %v", err)
	}
	// jsonrepair turns almost anything into an object, "{" included.
	if !hasReviewKey(obj) {
		return nil, fmt.Errorf("bad JSON: %w (repair yielded no review fields)", err)
	}
	return obj, nil
}

var reviewKeys = []string{"scores", "hard_fail_triggered", "notes", "limitations", "assumptions", "rationale"}

func hasReviewKey(obj map[string]any) bool {
	for _, k := range reviewKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// reviewFromObject copies the known fields it can read; mistyped fields are
// left empty and the whole object stays available in Raw.
func reviewFromObject(obj map[string]any) Review {
	rv := Review{Raw: obj}
	if scores, ok := obj["scores"].(map[string]any); ok {
		rv.Scores = make(map[string]float64, len(scores))
		for k, v := range scores {
			if f, ok := v.(float64); ok {
				rv.Scores[k] = f
			}
		}
	}
	if b, ok := obj["hard_fail_triggered"].(bool); ok {
		rv.HardFailTriggered = &b
	}
	rv.Notes, _ = obj["notes"].(string)
	rv.Rationale, _ = obj["rationale"].(string)
	rv.Limitations = stringList(obj["limitations"])
	rv.Assumptions = stringList(obj["assumptions"])
	return rv
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
