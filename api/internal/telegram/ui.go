package telegram

import (
	"strings"
	"unicode/utf8"
)

// splitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	for utf8.RuneCountInString(text) > limit {
		cut := byteOffset(text, limit)
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl > cut/2 {
			cut = nl + 1
		}
		out = append(out, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

const emptyResult = "(empty result)"

// replyChunks is what the bot sends for text: at least one message, even
// when the model gave nothing back.
func replyChunks(text string) []string {
	parts := splitMessage(text, maxMessageLen)
	if len(parts) == 0 {
		return []string{emptyResult}
	}
	return parts
}

// byteOffset returns the byte index of the n-th rune in s.
func byteOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}

const helpText = `Policy memo assistant.
/draft <title>
<instructions> — draft a memo (title on the first line)
/restyle <neutral|staffer|brief|one-pager> — reply to a memo to rewrite it
/review — reply to a memo to score it against the default rubric
/styles — list reference styles
/engine [name] — show or switch the LLM`
