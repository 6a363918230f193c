package telegram

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"policy-memo/api/internal/memo"
)

// taskFromText reads "/draft" arguments: the title on the first line and
// free-text instructions below it.
func taskFromText(s string) (memo.Task, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return memo.Task{}, false
	}
	title, rest, _ := strings.Cut(s, "\n")
	title = strings.TrimSpace(title)
	rest = strings.TrimSpace(rest)
	if rest == "" {
		rest = title
	}
	return memo.Task{
		Title:           title,
		DeliverableType: "policy memo",
		Prompt:          rest,
	}, true
}

func repliedText(m *tgbotapi.Message) string {
	if m.ReplyToMessage == nil {
		return ""
	}
	return strings.TrimSpace(m.ReplyToMessage.Text)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

func stylesText() string {
	var b strings.Builder
	b.WriteString("Styles:")
	for _, st := range memo.Styles {
		g, _ := st.Guidance()
		fmt.Fprintf(&b, "\n• %s — %s", st, g)
	}
	return b.String()
}

func formatReview(rv memo.Review) string {
	var b strings.Builder
	if len(rv.Scores) > 0 {
		keys := make([]string, 0, len(rv.Scores))
		for k := range rv.Scores {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Scores:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "• %s: %g\n", k, rv.Scores[k])
		}
	}
	if rv.HardFailTriggered != nil && *rv.HardFailTriggered {
		b.WriteString("⚠️ Hard fail triggered\n")
	}
	writeSection(&b, "Notes", rv.Notes)
	writeSection(&b, "Rationale", rv.Rationale)
	writeList(&b, "Limitations", rv.Limitations)
	writeList(&b, "Assumptions", rv.Assumptions)
	return strings.TrimSpace(b.String())
}

func writeSection(b *strings.Builder, title, body string) {
	if body = strings.TrimSpace(body); body != "" {
		fmt.Fprintf(b, "\n%s: %s\n", title, body)
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "• %s\n", it)
	}
}
