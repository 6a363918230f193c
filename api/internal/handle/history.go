package handle

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"policy-memo/api/internal/memo"
	"policy-memo/api/internal/store"
)

// resolveDraft loads draft_id from history and fills task/text when the
// request left them empty. It writes the error response itself.
func (h *Handle) resolveDraft(ctx context.Context, w http.ResponseWriter, draftID string, task *memo.Task, text *string) (*uuid.UUID, bool) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return nil, true
	}
	id, err := uuid.Parse(draftID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad draft_id: "+err.Error())
		return nil, false
	}
	if h.repo == nil {
		writeError(w, http.StatusBadRequest, "draft_id requires history storage (DATABASE_URL)")
		return nil, false
	}
	rec, err := h.repo.FindDraft(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "draft not found")
		return nil, false
	}
	if err != nil {
		log.Printf("[ERROR] find draft %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return nil, false
	}
	if strings.TrimSpace(*text) == "" {
		*text = rec.Body
	}
	if task.Title == "" && task.Prompt == "" {
		*task = rec.Task
	}
	return &id, true
}

func (h *Handle) saveDraft(ctx context.Context, engine string, t memo.Task, text string) (uuid.UUID, bool) {
	if h.repo == nil {
		return uuid.Nil, false
	}
	id, err := h.repo.SaveDraft(ctx, engine, t, text)
	return id, logSaveErr("draft", err)
}

func (h *Handle) saveReview(ctx context.Context, engine string, parent *uuid.UUID, t memo.Task, text string, rv memo.Review) (uuid.UUID, bool) {
	if h.repo == nil {
		return uuid.Nil, false
	}
	id, err := h.repo.SaveReview(ctx, engine, parent, t, text, rv)
	return id, logSaveErr("review", err)
}

func (h *Handle) saveReference(ctx context.Context, engine string, parent *uuid.UUID, t memo.Task, st memo.Style, text string) (uuid.UUID, bool) {
	if h.repo == nil {
		return uuid.Nil, false
	}
	id, err := h.repo.SaveReference(ctx, engine, parent, t, st, text)
	return id, logSaveErr("reference", err)
}

// history is best effort: a failed save is logged and the result still returned.
func logSaveErr(kind string, err error) bool {
	if err != nil {
		log.Printf("[WARN] save %s: %v", kind, err)
		return false
	}
	return true
}
