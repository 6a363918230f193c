package chat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownBackend = errors.New("unknown llm_name")

// Engines maps llm_name values to invokers. The empty name resolves to Default.
type Engines struct {
	Default string
	byName  map[string]*Invoker
}

func NewEngines(def string) *Engines {
	return &Engines{Default: strings.ToLower(strings.TrimSpace(def)), byName: map[string]*Invoker{}}
}

// Register binds inv under its backend name and any aliases.
func (e *Engines) Register(inv *Invoker, aliases ...string) {
	if inv == nil || inv.Backend == nil {
		return
	}
	for _, n := range append([]string{inv.Name()}, aliases...) {
		e.byName[strings.ToLower(n)] = inv
	}
	if e.Default == "" {
		e.Default = strings.ToLower(inv.Name())
	}
}

func (e *Engines) Get(llmName string) (*Invoker, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = e.Default
	}
	if inv, ok := e.byName[name]; ok {
		return inv, nil
	}
	return nil, fmt.Errorf("%w %q; use one of %s", ErrUnknownBackend, llmName, strings.Join(e.Names(), ", "))
}

// Names lists every registered name, sorted.
func (e *Engines) Names() []string {
	out := make([]string, 0, len(e.byName))
	for n := range e.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
