package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Invoker issues one logical chat request: the preferred model first, then a
// single retry on the backend's default model when the first attempt fails
// or comes back empty.
type Invoker struct {
	Backend        Backend
	PreferredModel string
	Logger         *log.Logger
}

func NewInvoker(b Backend, preferredModel string) *Invoker {
	return &Invoker{
		Backend:        b,
		PreferredModel: strings.TrimSpace(preferredModel),
	}
}

func (inv *Invoker) Name() string { return inv.Backend.Name() }

// Invoke returns the text of the first non-empty attempt. Only an error from
// the fallback attempt is returned; the preferred attempt's error is logged.
func (inv *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := inv.Backend.Chat(ctx, prompt, Options{Model: inv.PreferredModel})
	if err != nil {
		inv.logger().Printf("[WARN] %s: preferred model %q failed, using provider default: %v",
			inv.Backend.Name(), inv.PreferredModel, err)
	} else if text := ExtractText(resp); strings.TrimSpace(text) != "" {
		return text, nil
	}

	resp, err = inv.Backend.Chat(ctx, prompt, Options{})
	if err != nil {
		return "", fmt.Errorf("%s default model: %w", inv.Backend.Name(), err)
	}
	return ExtractText(resp), nil
}

func (inv *Invoker) logger() *log.Logger {
	if inv.Logger != nil {
		return inv.Logger
	}
	return log.Default()
}
