package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"policy-memo/api/internal/chat"
	"policy-memo/api/internal/util"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Backend talks to an OpenAI-compatible /chat/completions endpoint and hands
// back the decoded JSON body untouched.
type Backend struct {
	APIKey  string
	Model   string
	BaseURL string
	httpc   *http.Client
}

var _ chat.Backend = (*Backend)(nil)

func New(key, model string) *Backend {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		// long memos take a while before the first byte
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	return &Backend{
		APIKey:  strings.TrimSpace(key),
		Model:   strings.TrimSpace(model),
		BaseURL: DefaultBaseURL,
		httpc:   &http.Client{Transport: tr},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g., for custom timeouts or tracing).
func (b *Backend) WithHTTPClient(c *http.Client) *Backend {
	if c != nil {
		b.httpc = c
	}
	return b
}

// WithBaseURL points the backend at another OpenAI-compatible server.
func (b *Backend) WithBaseURL(u string) *Backend {
	if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
		b.BaseURL = u
	}
	return b
}

func (b *Backend) Name() string     { return "gpt" }
func (b *Backend) GetModel() string { return b.Model }

func (b *Backend) Chat(ctx context.Context, prompt string, opts chat.Options) (any, error) {
	if b.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is empty")
	}
	model := b.Model
	if m := strings.TrimSpace(opts.Model); m != "" {
		model = m
	}

	body := map[string]any{
		"model": model,
		"messages": []any{
			map[string]any{"role": "user", "content": prompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai chat %d: %s", resp.StatusCode, util.Truncate(strings.TrimSpace(string(raw)), 512))
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("openai chat: bad JSON: %w", err)
	}
	return out, nil
}
