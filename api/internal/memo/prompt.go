package memo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "January 2, 2006"

// evaluationSchema is the JSON shape the evaluator asks the model to return.
const evaluationSchema = `{
  "scores": { "<criterion_id>": <number> },
  "hard_fail_triggered": <boolean>,
  "notes": "<string>",
  "limitations": ["<string>"],
  "assumptions": ["<string>"],
  "rationale": "<string>"
}`

func responsePrompt(t Task, now time.Time) string {
	return fmt.Sprintf(`You are a senior policy analyst. Today is %s.

Draft a %s on the following assignment.

Title: %s
Policy domain: %s
Jurisdiction: %s
Deliverable type: %s
Stakeholders: %s
Constraints: %s
Additional constraint (assignment instructions): %s

Begin the memo with this header block, filled in:
TO: <primary audience>
FROM: Policy Analyst
DATE: %s
RE: %s

Then structure the memo as follows:
1. Executive Summary (first, three to five sentences, with the recommendation)
2. Background
3. Analysis of Options
4. Recommendation
5. Implementation and Risks

Respect every constraint. State assumptions explicitly where facts are missing.
Return only the memo text.`,
		now.Format(dateLayout),
		orDefault(t.DeliverableType, "policy memo"),
		t.Title,
		t.Domain,
		t.Jurisdiction,
		t.DeliverableType,
		jsonList(t.Stakeholders),
		jsonList(t.Constraints),
		strings.TrimSpace(t.Prompt),
		now.Format(dateLayout),
		t.Title,
	)
}

func evaluationPrompt(t Task, r Rubric, responseText string) string {
	return fmt.Sprintf(`You are grading a policy memo against a rubric.

TASK:
%s

RUBRIC:
%s

RESPONSE TO EVALUATE:
%s

Score the response on every rubric criterion. Set hard_fail_triggered to true if any
hard-fail criterion is violated. List the limitations of the response and the
assumptions it relies on, and explain your scoring in the rationale.

Return ONLY raw JSON (no markdown, no code fences, no commentary) matching this schema:
%s`,
		jsonObject(t),
		jsonObject(r),
		responseText,
		evaluationSchema,
	)
}

func referencePrompt(t Task, original string, s Style, guidance string) string {
	return fmt.Sprintf(`You are rewriting an existing policy memo into a different presentation style.

Task context:
Title: %s
Policy domain: %s
Jurisdiction: %s
Deliverable type: %s

Original memo:
---
%s
---

Target style: %s
Style guidance: %s

Rewrite the memo in the target style. Keep the same facts, analysis, and recommendation.
Do not invent new policy positions, data, or recommendations that are not in the original memo.
Return only the rewritten memo text.`,
		t.Title,
		t.Domain,
		t.Jurisdiction,
		t.DeliverableType,
		original,
		strings.ToUpper(string(s)),
		guidance,
	)
}

func jsonList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func jsonObject(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
