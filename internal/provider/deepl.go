package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// deeplTranslator calls the DeepL v2 REST API.
type deeplTranslator struct {
	model   string
	baseURL string
	apiKey  string
	client  *http.Client
}

func newDeepLTranslator(model, baseURL, apiKey string) *deeplTranslator {
	if baseURL == "" {
		baseURL = "https://api-free.deepl.com"
	}
	if model == "" {
		model = "deepl"
	}
	return &deeplTranslator{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

func (t *deeplTranslator) Name() string  { return TypeDeepL }
func (t *deeplTranslator) Model() string { return t.model }

func (t *deeplTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	payload := map[string]any{
		"text":        []string{text},
		"target_lang": strings.ToUpper(targetLang),
	}
	if sourceLang != "" && sourceLang != "auto" {
		payload["source_lang"] = strings.ToUpper(sourceLang)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/translate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return &Result{OutputText: out.Translations[0].Text}, nil
}
