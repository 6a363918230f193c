package memo

// Task describes the memo a caller wants drafted.
type Task struct {
	Title           string   `json:"title"`
	Domain          string   `json:"domain"`
	Jurisdiction    string   `json:"jurisdiction"`
	DeliverableType string   `json:"deliverable_type"`
	Stakeholders    []string `json:"stakeholders"`
	Constraints     []string `json:"constraints"`
	Prompt          string   `json:"prompt"`
}

type Criterion struct {
	Description string  `json:"description"`
	MaxScore    float64 `json:"max_score,omitempty"`
	HardFail    bool    `json:"hard_fail,omitempty"`
}

// Rubric holds the scoring criteria keyed by criterion id.
type Rubric struct {
	ID       string               `json:"id,omitempty"`
	Criteria map[string]Criterion `json:"criteria"`
}

// Review is what the evaluator could recover from the model's answer.
// Any field may be missing; Raw keeps the decoded object as the model sent it.
type Review struct {
	Scores            map[string]float64 `json:"scores,omitempty"`
	HardFailTriggered *bool              `json:"hard_fail_triggered,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	Limitations       []string           `json:"limitations,omitempty"`
	Assumptions       []string           `json:"assumptions,omitempty"`
	Rationale         string             `json:"rationale,omitempty"`
	Raw               map[string]any     `json:"raw,omitempty"`
}
