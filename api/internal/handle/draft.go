package handle

import (
	"net/http"
	"strings"

	"policy-memo/api/internal/memo"
)

type draftReq struct {
	LLMName string    `json:"llm_name"`
	Task    memo.Task `json:"task"`
}

type textResp struct {
	ID     string `json:"id,omitempty"`
	Engine string `json:"engine"`
	Text   string `json:"text"`
}

// Draft — POST /v1/memo/draft
func (h *Handle) Draft(w http.ResponseWriter, r *http.Request) {
	var req draftReq
	if !decodePOST(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Task.Title) == "" && strings.TrimSpace(req.Task.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "task.title or task.prompt is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	svc, engine, err := h.service(req.LLMName)
	if err != nil {
		writeBackendError(w, "draft", err)
		return
	}
	text, err := svc.GenerateResponse(ctx, req.Task)
	if err != nil {
		writeBackendError(w, "draft", err)
		return
	}

	out := textResp{Engine: engine, Text: text}
	if id, ok := h.saveDraft(ctx, engine, req.Task, text); ok {
		out.ID = id.String()
	}
	writeJSON(w, http.StatusOK, out)
}
