package telegram

import (
	"sync"
	"time"
)

const (
	requestTimeout = 3 * time.Minute
	maxMessageLen  = 3900
)

var chatEngine sync.Map // chatID -> llm_name chosen with /engine

func setEngine(chatID int64, name string) { chatEngine.Store(chatID, name) }
func getEngine(chatID int64) string {
	if v, ok := chatEngine.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}
