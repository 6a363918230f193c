package handle

import (
	"net/http"
	"strings"

	"policy-memo/api/internal/memo"
)

type referenceReq struct {
	LLMName string    `json:"llm_name"`
	Task    memo.Task `json:"task"`
	Memo    string    `json:"memo"`
	Style   string    `json:"style"`
	DraftID string    `json:"draft_id,omitempty"`
}

// Reference — POST /v1/memo/reference
func (h *Handle) Reference(w http.ResponseWriter, r *http.Request) {
	var req referenceReq
	if !decodePOST(w, r, &req) {
		return
	}
	style, err := memo.ParseStyle(req.Style)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	parent, ok := h.resolveDraft(ctx, w, req.DraftID, &req.Task, &req.Memo)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Memo) == "" {
		writeError(w, http.StatusBadRequest, "memo is required")
		return
	}

	svc, engine, err := h.service(req.LLMName)
	if err != nil {
		writeBackendError(w, "reference", err)
		return
	}
	text, err := svc.GenerateReference(ctx, req.Task, req.Memo, style)
	if err != nil {
		writeBackendError(w, "reference", err)
		return
	}

	out := textResp{Engine: engine, Text: text}
	if id, ok := h.saveReference(ctx, engine, parent, req.Task, style, text); ok {
		out.ID = id.String()
	}
	writeJSON(w, http.StatusOK, out)
}

type styleInfo struct {
	Style    memo.Style `json:"style"`
	Guidance string     `json:"guidance"`
}

// Styles — GET /v1/memo/styles
func (h *Handle) Styles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	out := make([]styleInfo, 0, len(memo.Styles))
	for _, st := range memo.Styles {
		g, _ := st.Guidance()
		out = append(out, styleInfo{Style: st, Guidance: g})
	}
	writeJSON(w, http.StatusOK, out)
}
