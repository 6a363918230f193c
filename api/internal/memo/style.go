package memo

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStyle = errors.New("unknown reference style")

type Style string

const (
	StyleNeutral  Style = "neutral"
	StyleStaffer  Style = "staffer"
	StyleBrief    Style = "brief"
	StyleOnePager Style = "one-pager"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleNeutral, StyleStaffer, StyleBrief, StyleOnePager}

var styleGuidance = map[Style]string{
	StyleNeutral:  "Write in a neutral, balanced analytical voice. Present each option with its trade-offs, avoid advocacy language, and attribute every claim to the original memo.",
	StyleStaffer:  "Write as a legislative staffer briefing a principal. Lead with the bottom line, flag political and stakeholder implications, and close with clear recommended next steps.",
	StyleBrief:    "Write a tight policy brief. Use short sections with headings, keep each paragraph to two or three sentences, and cut background that does not support a decision.",
	StyleOnePager: "Fit everything on a single page. Use a one-paragraph summary followed by no more than six bullets covering the problem, options, recommendation, and risks.",
}

// Guidance returns the writing guidance for s.
func (s Style) Guidance() (string, bool) {
	g, ok := styleGuidance[s]
	return g, ok
}

func (s Style) Valid() bool {
	_, ok := styleGuidance[s]
	return ok
}

// ParseStyle accepts a style tag case-insensitively; "one_pager" and
// "onepager" are read as one-pager.
func ParseStyle(v string) (Style, error) {
	tag := strings.ToLower(strings.TrimSpace(v))
	switch tag {
	case "one_pager", "onepager", "one pager":
		tag = string(StyleOnePager)
	}
	s := Style(tag)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, v)
	}
	return s, nil
}
