package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"policy-memo/api/internal/config"
	"policy-memo/api/internal/engines"
	"policy-memo/api/internal/handle"
	"policy-memo/api/internal/httpserver"
	"policy-memo/api/internal/store"
)

func main() {
	cfg := config.MustLoad()

	repo, closeDB, err := store.OpenHistory(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("history: %v", err)
	}
	defer closeDB()
	if repo != nil {
		log.Printf("[INFO] history enabled: %s", store.SafeDSNSummary(cfg.DatabaseURL))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz(repo.Ping))

	h := handle.New(engines.FromConfig(cfg), repo)
	h.Register(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("memo-proxy listening on %s", srv.Addr)
	log.Fatal(srv.ListenAndServe())
}
