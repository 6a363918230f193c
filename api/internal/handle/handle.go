package handle

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"policy-memo/api/internal/chat"
	"policy-memo/api/internal/memo"
	"policy-memo/api/internal/store"
)

const defaultDeadline = 180 * time.Second

type Handle struct {
	engs *chat.Engines
	repo *store.MemoRepo // nil: history disabled
}

func New(engs *chat.Engines, repo *store.MemoRepo) *Handle {
	return &Handle{
		engs: engs,
		repo: repo,
	}
}

// Register mounts every memo route on mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/memo/draft", h.Draft)
	mux.HandleFunc("/v1/memo/evaluate", h.Evaluate)
	mux.HandleFunc("/v1/memo/reference", h.Reference)
	mux.HandleFunc("/v1/memo/styles", h.Styles)
}

// service resolves llm_name to a memo service bound to that engine.
func (h *Handle) service(llmName string) (*memo.Service, string, error) {
	inv, err := h.engs.Get(llmName)
	if err != nil {
		return nil, "", err
	}
	return memo.NewService(inv), inv.Name(), nil
}

// requestContext honours X-Request-Timeout (seconds) or ?timeoutSec=.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	deadline := defaultDeadline
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return context.WithTimeout(r.Context(), deadline)
}

func decodePOST(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return false
	}
	return true
}

// writeBackendError maps engine lookup and generation errors to a status.
func writeBackendError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, chat.ErrUnknownBackend), errors.Is(err, memo.ErrUnknownStyle):
		writeError(w, http.StatusBadRequest, op+" error: "+err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, op+" error: "+err.Error())
	default:
		log.Printf("[ERROR] %s: %v", op, err)
		writeError(w, http.StatusBadGateway, op+" error: "+err.Error())
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
