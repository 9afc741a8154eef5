package provider

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// googleTranslator backs the "google" variant with the Cloud Translation
// API. The client is created per call so credentials stay request-scoped.
type googleTranslator struct {
	model       string
	credentials string
}

func newGoogleTranslator(model, credentials string) *googleTranslator {
	if model == "" {
		model = "default"
	}
	return &googleTranslator{model: model, credentials: credentials}
}

func (t *googleTranslator) Name() string  { return TypeGoogle }
func (t *googleTranslator) Model() string { return t.model }

func (t *googleTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	targetTag, err := language.Parse(targetLang)
	if err != nil {
		return nil, fmt.Errorf("invalid target language: %w", err)
	}

	var opts []option.ClientOption
	if t.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(t.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	var translations []translate.Translation
	if sourceLang == "" || sourceLang == "auto" {
		translations, err = client.Translate(ctx, []string{text}, targetTag, nil)
	} else {
		sourceTag, parseErr := language.Parse(sourceLang)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid source language: %w", parseErr)
		}
		translations, err = client.Translate(ctx, []string{text}, targetTag, &translate.Options{Source: sourceTag})
	}
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return &Result{OutputText: translations[0].Text}, nil
}
