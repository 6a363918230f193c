package memo

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeInvoker) Invoke(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func sampleTask() Task {
	return Task{
		Title:           "Short-term rental regulation",
		Domain:          "housing",
		Jurisdiction:    "City of Austin",
		DeliverableType: "decision memo",
		Stakeholders:    []string{"residents", "hosts"},
		Constraints:     []string{"no new taxes"},
		Prompt:          "Recommend a permitting approach.",
	}
}

func newTestService(inv Invoker, now time.Time) (*Service, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewService(inv)
	s.Now = func() time.Time { return now }
	s.Logger = log.New(&buf, "", 0)
	return s, &buf
}

func TestGenerateResponsePrompt(t *testing.T) {
	inv := &fakeInvoker{reply: "TO: Mayor\nmemo"}
	s, _ := newTestService(inv, time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC))

	out, err := s.GenerateResponse(context.Background(), sampleTask())
	require.NoError(t, err)
	assert.Equal(t, "TO: Mayor\nmemo", out)

	require.Len(t, inv.prompts, 1)
	p := inv.prompts[0]
	assert.Contains(t, p, "March 4, 2026")
	assert.Contains(t, p, "Title: Short-term rental regulation")
	assert.Contains(t, p, "Jurisdiction: City of Austin")
	assert.Contains(t, p, `Stakeholders: ["residents","hosts"]`)
	assert.Contains(t, p, `Constraints: ["no new taxes"]`)
	assert.Contains(t, p, "Recommend a permitting approach.")
	assert.Contains(t, p, "TO:")
	assert.Contains(t, p, "Executive Summary")
}

func TestGenerateResponsePlaceholder(t *testing.T) {
	s, _ := newTestService(&fakeInvoker{reply: "  "}, time.Now())
	out, err := s.GenerateResponse(context.Background(), sampleTask())
	require.NoError(t, err)
	assert.Equal(t, PlaceholderResponse, out)
}

func TestGenerateResponseError(t *testing.T) {
	boom := errors.New("down")
	s, _ := newTestService(&fakeInvoker{err: boom}, time.Now())
	_, err := s.GenerateResponse(context.Background(), sampleTask())
	assert.ErrorIs(t, err, boom)
}

func TestGenerateResponsePromptIsStable(t *testing.T) {
	inv := &fakeInvoker{reply: "x"}
	day1 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	s, _ := newTestService(inv, day1)

	_, err := s.GenerateResponse(context.Background(), sampleTask())
	require.NoError(t, err)
	s.Now = func() time.Time { return day2 }
	_, err = s.GenerateResponse(context.Background(), sampleTask())
	require.NoError(t, err)

	require.Len(t, inv.prompts, 2)
	assert.NotEqual(t, inv.prompts[0], inv.prompts[1])
	a := strings.ReplaceAll(inv.prompts[0], "January 1, 2026", "<date>")
	b := strings.ReplaceAll(inv.prompts[1], "February 2, 2026", "<date>")
	assert.Equal(t, a, b)
}

func TestEvaluateFencedJSON(t *testing.T) {
	inv := &fakeInvoker{reply: "```json\n" + `{"scores":{"a":5,"b":"high"},"hard_fail_triggered":false,"notes":"solid","limitations":["no costing"],"assumptions":[],"rationale":"clear"}` + "\n```"}
	s, _ := newTestService(inv, time.Now())

	rubric := Rubric{Criteria: map[string]Criterion{"a": {Description: "clarity", MaxScore: 5}}}
	rv, err := s.Evaluate(context.Background(), sampleTask(), rubric, "the memo")
	require.NoError(t, err)

	assert.Equal(t, 5.0, rv.Scores["a"])
	_, ok := rv.Scores["b"]
	assert.False(t, ok)
	require.NotNil(t, rv.HardFailTriggered)
	assert.False(t, *rv.HardFailTriggered)
	assert.Equal(t, "solid", rv.Notes)
	assert.Equal(t, []string{"no costing"}, rv.Limitations)
	assert.Equal(t, []string{}, rv.Assumptions)
	assert.Equal(t, "clear", rv.Rationale)
	assert.Equal(t, "high", rv.Raw["scores"].(map[string]any)["b"])

	require.Len(t, inv.prompts, 1)
	assert.Contains(t, inv.prompts[0], `"clarity"`)
	assert.Contains(t, inv.prompts[0], "the memo")
	assert.Contains(t, inv.prompts[0], "Return ONLY raw JSON")
}

func TestEvaluateBareFence(t *testing.T) {
	inv := &fakeInvoker{reply: "```\n{\"scores\":{\"a\":3}}\n```"}
	s, _ := newTestService(inv, time.Now())
	rv, err := s.Evaluate(context.Background(), sampleTask(), Rubric{}, "m")
	require.NoError(t, err)
	assert.Equal(t, 3.0, rv.Scores["a"])
	assert.Nil(t, rv.HardFailTriggered)
}

func TestEvaluateRepairsTrailingComma(t *testing.T) {
	inv := &fakeInvoker{reply: `{"scores":{"a":4,},"notes":"ok",}`}
	s, _ := newTestService(inv, time.Now())
	rv, err := s.Evaluate(context.Background(), sampleTask(), Rubric{}, "m")
	require.NoError(t, err)
	assert.Equal(t, 4.0, rv.Scores["a"])
	assert.Equal(t, "ok", rv.Notes)
}

func TestEvaluateNonJSON(t *testing.T) {
	inv := &fakeInvoker{reply: "I am unable to grade this memo."}
	s, logs := newTestService(inv, time.Now())
	rv, err := s.Evaluate(context.Background(), sampleTask(), Rubric{}, "m")
	require.NoError(t, err)
	assert.Equal(t, Review{Notes: EvaluationParseErrorNote}, rv)
	assert.Contains(t, logs.String(), "[ERROR]")
}

func TestEvaluateUnrepairableObject(t *testing.T) {
	for _, reply := range []string{
		"{",
		"```json\n{\n```",
		"{I am unable to grade this memo.}",
		`{"verdict":"fine"`,
	} {
		t.Run(reply, func(t *testing.T) {
			s, logs := newTestService(&fakeInvoker{reply: reply}, time.Now())
			rv, err := s.Evaluate(context.Background(), sampleTask(), Rubric{}, "m")
			require.NoError(t, err)
			assert.Equal(t, Review{Notes: EvaluationParseErrorNote}, rv)
			assert.Contains(t, logs.String(), "[ERROR]")
		})
	}
}

func TestEvaluateBackendError(t *testing.T) {
	boom := errors.New("down")
	s, _ := newTestService(&fakeInvoker{err: boom}, time.Now())
	_, err := s.Evaluate(context.Background(), sampleTask(), Rubric{}, "m")
	assert.ErrorIs(t, err, boom)
}

func TestGenerateReferenceGuidance(t *testing.T) {
	for _, st := range Styles {
		t.Run(string(st), func(t *testing.T) {
			inv := &fakeInvoker{reply: "rewritten"}
			s, _ := newTestService(inv, time.Now())

			out, err := s.GenerateReference(context.Background(), sampleTask(), "ORIGINAL MEMO", st)
			require.NoError(t, err)
			assert.Equal(t, "rewritten", out)

			require.Len(t, inv.prompts, 1)
			guidance, ok := st.Guidance()
			require.True(t, ok)
			assert.Contains(t, inv.prompts[0], guidance)
			assert.Contains(t, inv.prompts[0], "Target style: "+strings.ToUpper(string(st)))
			assert.Contains(t, inv.prompts[0], "ORIGINAL MEMO")
			assert.Contains(t, inv.prompts[0], "Do not invent new policy positions")
		})
	}
}

func TestGenerateReferenceUnknownStyle(t *testing.T) {
	inv := &fakeInvoker{reply: "rewritten"}
	s, _ := newTestService(inv, time.Now())

	_, err := s.GenerateReference(context.Background(), sampleTask(), "memo", Style("haiku"))
	assert.ErrorIs(t, err, ErrUnknownStyle)
	assert.Empty(t, inv.prompts)
}

func TestGenerateReferencePlaceholder(t *testing.T) {
	s, _ := newTestService(&fakeInvoker{}, time.Now())
	out, err := s.GenerateReference(context.Background(), sampleTask(), "memo", StyleBrief)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderReference, out)
}
