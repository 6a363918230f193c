package chat

import "context"

// Options tweaks a single backend call. A zero Options means provider defaults.
type Options struct {
	Model string
}

// Backend is a chat service that turns a prompt into a response envelope.
// The envelope shape is backend-defined; see Decode.
type Backend interface {
	Name() string
	Chat(ctx context.Context, prompt string, opts Options) (any, error)
}
