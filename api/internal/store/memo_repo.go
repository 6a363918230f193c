package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"policy-memo/api/internal/memo"
)

var ErrNotFound = sql.ErrNoRows

//go:embed schema.sql
var schemaSQL string

type Kind string

const (
	KindDraft     Kind = "draft"
	KindReview    Kind = "review"
	KindReference Kind = "reference"
)

// MemoRepo keeps a history of generated drafts, reviews and references.
type MemoRepo struct{ DB *sql.DB }

func NewMemoRepo(db *sql.DB) *MemoRepo { return &MemoRepo{DB: db} }

// Record is one stored generation result.
type Record struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Kind      Kind
	Engine    string
	ParentID  *uuid.UUID
	Style     memo.Style
	Task      memo.Task
	Body      string
	Review    *memo.Review
}

// EnsureSchema creates the memo_records table when it does not exist yet.
func (r *MemoRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schemaSQL)
	return err
}

func (r *MemoRepo) SaveDraft(ctx context.Context, engine string, t memo.Task, body string) (uuid.UUID, error) {
	return r.insert(ctx, Record{Kind: KindDraft, Engine: engine, Task: t, Body: body})
}

func (r *MemoRepo) SaveReview(ctx context.Context, engine string, parent *uuid.UUID, t memo.Task, responseText string, rv memo.Review) (uuid.UUID, error) {
	return r.insert(ctx, Record{Kind: KindReview, Engine: engine, ParentID: parent, Task: t, Body: responseText, Review: &rv})
}

func (r *MemoRepo) SaveReference(ctx context.Context, engine string, parent *uuid.UUID, t memo.Task, st memo.Style, body string) (uuid.UUID, error) {
	return r.insert(ctx, Record{Kind: KindReference, Engine: engine, ParentID: parent, Task: t, Style: st, Body: body})
}

func (r *MemoRepo) insert(ctx context.Context, rec Record) (uuid.UUID, error) {
	id := uuid.New()
	taskJS, err := json.Marshal(rec.Task)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal task: %w", err)
	}
	var reviewJS []byte
	if rec.Review != nil {
		if reviewJS, err = json.Marshal(rec.Review); err != nil {
			return uuid.Nil, fmt.Errorf("marshal review: %w", err)
		}
	}
	const q = `
insert into memo_records(id, kind, engine, parent_id, style, task_json, body, review_json)
values ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.DB.ExecContext(ctx, q,
		id, string(rec.Kind), rec.Engine, nullUUID(rec.ParentID), nullString(string(rec.Style)),
		taskJS, rec.Body, nullBytes(reviewJS))
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// FindDraft returns the stored draft with the given id, or ErrNotFound.
func (r *MemoRepo) FindDraft(ctx context.Context, id uuid.UUID) (*Record, error) {
	const q = `
select id, created_at, kind, engine, task_json, body
from memo_records
where id = $1 and kind = 'draft'`
	var (
		rec    Record
		kind   string
		taskJS []byte
	)
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.CreatedAt, &kind, &rec.Engine, &taskJS, &rec.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Kind = Kind(kind)
	if err := json.Unmarshal(taskJS, &rec.Task); err != nil {
		return nil, fmt.Errorf("draft %s: bad task_json: %w", id, err)
	}
	return &rec, nil
}

func nullUUID(id *uuid.UUID) any {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return *id
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// Ping reports whether the history database is reachable. A nil repo is
// always healthy.
func (r *MemoRepo) Ping(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.PingContext(ctx)
}
