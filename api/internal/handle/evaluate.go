package handle

import (
	"net/http"
	"strings"

	"policy-memo/api/internal/memo"
)

type evaluateReq struct {
	LLMName      string      `json:"llm_name"`
	Task         memo.Task   `json:"task"`
	Rubric       memo.Rubric `json:"rubric"`
	ResponseText string      `json:"response_text"`
	DraftID      string      `json:"draft_id,omitempty"`
}

type evaluateResp struct {
	ID     string      `json:"id,omitempty"`
	Engine string      `json:"engine"`
	Review memo.Review `json:"review"`
}

// Evaluate — POST /v1/memo/evaluate
// response_text may be omitted when draft_id names a stored draft.
func (h *Handle) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateReq
	if !decodePOST(w, r, &req) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	parent, ok := h.resolveDraft(ctx, w, req.DraftID, &req.Task, &req.ResponseText)
	if !ok {
		return
	}
	if strings.TrimSpace(req.ResponseText) == "" {
		writeError(w, http.StatusBadRequest, "response_text is required")
		return
	}

	svc, engine, err := h.service(req.LLMName)
	if err != nil {
		writeBackendError(w, "evaluate", err)
		return
	}
	rv, err := svc.Evaluate(ctx, req.Task, req.Rubric, req.ResponseText)
	if err != nil {
		writeBackendError(w, "evaluate", err)
		return
	}

	out := evaluateResp{Engine: engine, Review: rv}
	if id, ok := h.saveReview(ctx, engine, parent, req.Task, req.ResponseText, rv); ok {
		out.ID = id.String()
	}
	writeJSON(w, http.StatusOK, out)
}
