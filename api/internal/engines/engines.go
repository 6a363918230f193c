package engines

import (
	"log"

	"policy-memo/api/internal/chat"
	"policy-memo/api/internal/chat/gemini"
	"policy-memo/api/internal/chat/openai"
	"policy-memo/api/internal/config"
)

// FromConfig registers an invoker for every backend that has an API key.
func FromConfig(cfg *config.Config) *chat.Engines {
	engs := chat.NewEngines(cfg.DefaultLLM)
	var first string

	if cfg.OpenAIAPIKey != "" {
		b := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel).WithBaseURL(cfg.OpenAIBaseURL)
		engs.Register(chat.NewInvoker(b, cfg.OpenAIPreferredModel), "openai")
		first = b.Name()
		log.Printf("[INFO] engine gpt: preferred=%s default=%s", cfg.OpenAIPreferredModel, cfg.OpenAIModel)
	}
	if cfg.GeminiAPIKey != "" {
		b := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
		engs.Register(chat.NewInvoker(b, cfg.GeminiPreferredModel))
		if first == "" {
			first = b.Name()
		}
		log.Printf("[INFO] engine gemini: preferred=%s default=%s", cfg.GeminiPreferredModel, cfg.GeminiModel)
	}
	if _, err := engs.Get(""); err != nil && first != "" {
		log.Printf("[WARN] DEFAULT_LLM=%q is not configured, using %s", cfg.DefaultLLM, first)
		engs.Default = first
	}
	return engs
}
