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

const translationTemperature = 0.3

// chatTranslator talks to an OpenAI-compatible chat-completions endpoint.
// It backs both the cloud "openai" variant and the "local" variant
// (LM Studio, Ollama's OpenAI facade, vLLM and the like).
type chatTranslator struct {
	name    string
	model   string
	baseURL string
	apiKey  string
	client  *http.Client
}

func newChatTranslator(name, model, baseURL, apiKey string) *chatTranslator {
	return &chatTranslator{
		name:    name,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (t *chatTranslator) Name() string  { return t.name }
func (t *chatTranslator) Model() string { return t.model }

func (t *chatTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	source := "the source language"
	if sourceLang != "" && sourceLang != "auto" {
		source = languageName(sourceLang)
	}
	target := languageName(targetLang)

	payload := map[string]any{
		"model": t.model,
		"messages": []map[string]string{
			{"role": "system", "content": buildSystemPrompt(source, target)},
			{"role": "user", "content": fmt.Sprintf("Translate to %s:\n\n%s", target, text)},
		},
		"temperature": translationTemperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

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
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	return &Result{
		OutputText:  cleanOutput(out.Choices[0].Message.Content),
		UsageTokens: out.Usage.TotalTokens,
	}, nil
}

func buildSystemPrompt(sourceLang, targetLang string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n", sourceLang, targetLang))
	sb.WriteString(fmt.Sprintf("IMPORTANT: you MUST translate to %s. Do not translate to any other language.\n\n", targetLang))
	sb.WriteString("Guidelines:\n")
	sb.WriteString("- Preserve the original meaning, tone, and formatting\n")
	sb.WriteString("- Maintain numbers, dates, and named entities exactly as they appear\n")
	sb.WriteString(fmt.Sprintf("- Provide ONLY the translation in %s\n", targetLang))
	sb.WriteString("- Do NOT add any commentary, explanation, or notes")
	return sb.String()
}
