package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"policy-memo/api/internal/config"
	"policy-memo/api/internal/engines"
	"policy-memo/api/internal/httpserver"
	"policy-memo/api/internal/store"
	"policy-memo/api/internal/telegram"
)

const (
	pollTimeoutSec = 30
	minRetryDelay  = 1 * time.Second
	maxRetryDelay  = 15 * time.Second
)

func main() {
	cfg := config.MustLoad()
	if cfg.TelegramBotToken == "" {
		log.Fatal("missing required env TELEGRAM_BOT_TOKEN")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeDB, err := store.OpenHistory(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("memo bot: history: %v", err)
	}
	defer closeDB()
	if repo != nil {
		log.Printf("[INFO] memo bot: history in %s", store.SafeDSNSummary(cfg.DatabaseURL))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("memo bot: %v", err)
	}
	log.Printf("[INFO] memo bot: authorized as @%s", bot.Self.UserName)

	r := &telegram.Router{
		Bot:     bot,
		Engines: engines.FromConfig(cfg),
		Repo:    repo,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz(repo.Ping))

	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL != "" {
		path, err := registerWebhook(bot, webhookURL)
		if err != nil {
			log.Fatalf("memo bot: webhook: %v", err)
		}
		mux.Handle(path, webhookHandler(bot, r.HandleUpdate))
		log.Printf("[INFO] memo bot: webhook mode on %s", path)
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("memo bot: http: %v", err)
		}
	}()

	if webhookURL == "" {
		log.Printf("[INFO] memo bot: polling mode, health on %s/healthz", srv.Addr)
		runPolling(ctx, bot, r.HandleUpdate)
	} else {
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Printf("[INFO] memo bot: stopped")
}

// registerWebhook points Telegram at baseURL plus a path derived from the
// token, and returns that path.
func registerWebhook(bot *tgbotapi.BotAPI, baseURL string) (string, error) {
	path := webhookPath(bot.Token)
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return "", err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return "", err
	}
	return path, nil
}

func webhookHandler(bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		upd, err := bot.HandleUpdate(req)
		if err != nil {
			log.Printf("[WARN] memo bot: bad webhook update: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handle(*upd)
		w.WriteHeader(http.StatusOK)
	}
}

// webhookPath keeps the token out of the URL while staying stable across restarts.
func webhookPath(token string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	return fmt.Sprintf("/webhook/%016x", h.Sum64())
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSec
	failures := 0

	for ctx.Err() == nil {
		updates, err := bot.GetUpdates(u)
		if err != nil {
			failures++
			d := retryDelay(err, failures)
			log.Printf("[WARN] memo bot: getUpdates failed (%d in a row): %v; next try in %v", failures, err, d)
			if !sleepCtx(ctx, d) {
				return
			}
			continue
		}
		failures = 0

		for _, upd := range updates {
			if upd.UpdateID >= u.Offset {
				u.Offset = upd.UpdateID + 1
			}
			handle(upd)
		}
	}
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

// retryDelay honours Telegram's retry_after; otherwise it doubles from
// minRetryDelay with each consecutive failure, up to maxRetryDelay.
func retryDelay(err error, failures int) time.Duration {
	if err == nil {
		return 0
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return clampDelay(time.Duration(apiErr.RetryAfter) * time.Second)
	}
	if m := reRetryAfter.FindStringSubmatch(err.Error()); len(m) == 2 {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return clampDelay(time.Duration(n) * time.Second)
		}
	}

	d := minRetryDelay
	for i := 1; i < failures && d < maxRetryDelay; i++ {
		d *= 2
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() && d < 2*time.Second {
		d = 2 * time.Second
	}
	return clampDelay(d)
}

func clampDelay(d time.Duration) time.Duration {
	if d < minRetryDelay {
		return minRetryDelay
	}
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
