package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"policy-memo/api/internal/chat"
	"policy-memo/api/internal/memo"
	"policy-memo/api/internal/store"
)

type Router struct {
	Bot     *tgbotapi.BotAPI
	Engines *chat.Engines
	Repo    *store.MemoRepo // optional
}

// defaultRubric is used by /review.
var defaultRubric = memo.Rubric{
	ID: "telegram-default",
	Criteria: map[string]memo.Criterion{
		"clarity":     {Description: "The recommendation and its reasoning are easy to follow.", MaxScore: 5},
		"evidence":    {Description: "Claims are supported and assumptions are stated.", MaxScore: 5},
		"feasibility": {Description: "The recommendation can be implemented within the stated constraints.", MaxScore: 5},
		"structure":   {Description: "Header block present and executive summary comes first.", MaxScore: 5, HardFail: true},
	},
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil || !upd.Message.IsCommand() {
		return
	}
	r.HandleCommand(upd.Message)
}

func (r *Router) HandleCommand(m *tgbotapi.Message) {
	cid := m.Chat.ID
	args := strings.TrimSpace(m.CommandArguments())
	switch m.Command() {
	case "start", "help":
		r.send(cid, helpText)
	case "styles":
		r.send(cid, stylesText())
	case "engine":
		r.handleEngine(cid, args)
	case "draft":
		task, ok := taskFromText(args)
		if !ok {
			r.send(cid, "Usage: /draft <title>\n<instructions>")
			return
		}
		r.send(cid, "Drafting…")
		go r.runDraft(cid, task)
	case "restyle":
		original := repliedText(m)
		if original == "" {
			r.send(cid, "Reply to a memo with /restyle <style>.")
			return
		}
		st, err := memo.ParseStyle(args)
		if err != nil {
			r.send(cid, err.Error()+"\n\n"+stylesText())
			return
		}
		go r.runReference(cid, original, st)
	case "review":
		original := repliedText(m)
		if original == "" {
			r.send(cid, "Reply to a memo with /review.")
			return
		}
		go r.runReview(cid, original)
	default:
		r.send(cid, "Unknown command. /help")
	}
}

func (r *Router) handleEngine(chatID int64, args string) {
	name := strings.ToLower(strings.TrimSpace(args))
	if name == "" {
		cur, err := r.Engines.Get(getEngine(chatID))
		if err != nil {
			r.send(chatID, "No engine configured.")
			return
		}
		r.send(chatID, fmt.Sprintf("Current engine: %s (preferred model %s)\nAvailable: %s",
			cur.Name(), cur.PreferredModel, strings.Join(r.Engines.Names(), " | ")))
		return
	}
	if _, err := r.Engines.Get(name); err != nil {
		r.send(chatID, err.Error())
		return
	}
	setEngine(chatID, name)
	r.send(chatID, "✅ Engine: "+name)
}

func (r *Router) service(chatID int64) (*memo.Service, string, error) {
	inv, err := r.Engines.Get(getEngine(chatID))
	if err != nil {
		return nil, "", err
	}
	return memo.NewService(inv), inv.Name(), nil
}

func (r *Router) runDraft(chatID int64, task memo.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	svc, engine, err := r.service(chatID)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	text, err := svc.GenerateResponse(ctx, task)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	if r.Repo != nil {
		if _, err := r.Repo.SaveDraft(ctx, engine, task, text); err != nil {
			log.Printf("[WARN] telegram: save draft: %v", err)
		}
	}
	r.sendLong(chatID, text)
}

func (r *Router) runReference(chatID int64, original string, st memo.Style) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	svc, engine, err := r.service(chatID)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	task := memo.Task{Title: firstLine(original), DeliverableType: "policy memo"}
	text, err := svc.GenerateReference(ctx, task, original, st)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	if r.Repo != nil {
		if _, err := r.Repo.SaveReference(ctx, engine, nil, task, st, text); err != nil {
			log.Printf("[WARN] telegram: save reference: %v", err)
		}
	}
	r.sendLong(chatID, text)
}

func (r *Router) runReview(chatID int64, original string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	svc, engine, err := r.service(chatID)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	task := memo.Task{Title: firstLine(original), DeliverableType: "policy memo"}
	rv, err := svc.Evaluate(ctx, task, defaultRubric, original)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	if r.Repo != nil {
		if _, err := r.Repo.SaveReview(ctx, engine, nil, task, original, rv); err != nil {
			log.Printf("[WARN] telegram: save review: %v", err)
		}
	}
	r.sendLong(chatID, formatReview(rv))
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("[WARN] telegram send to %d: %v", chatID, err)
	}
}

func (r *Router) sendLong(chatID int64, text string) {
	for _, part := range replyChunks(text) {
		r.send(chatID, part)
	}
}

func (r *Router) SendError(chatID int64, err error) {
	log.Printf("[ERROR] telegram chat %d: %v", chatID, err)
	r.send(chatID, fmt.Sprintf("Error: %v", err))
}
