// Package provider implements the translation backend gateway: a closed set
// of vendor adapters behind one capability interface. Adding a vendor means
// adding a variant here; the orchestrator never changes.
package provider

import (
	"context"
	"fmt"
	"strings"
)

// Provider type tags accepted in a ProviderConfig.
const (
	TypeOpenAI = "openai"
	TypeLocal  = "local"
	TypeDeepL  = "deepl"
	TypeGoogle = "google"
)

// Result is a successful translation. Latency is measured by the caller.
type Result struct {
	OutputText  string
	UsageTokens int
}

// Translator is the single capability the orchestrator consumes.
type Translator interface {
	Name() string
	Model() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error)
}

// Config selects and parameterizes one backend.
type Config struct {
	Type        string
	Model       string
	BaseURL     string
	APIKey      string
	Credentials string
}

// New constructs the adapter for cfg.Type.
func New(cfg Config) (Translator, error) {
	switch strings.ToLower(cfg.Type) {
	case TypeOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an api key")
		}
		return newChatTranslator(TypeOpenAI, cfg.Model, "https://api.openai.com/v1", cfg.APIKey), nil
	case TypeLocal:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("local provider requires a base url")
		}
		return newChatTranslator(TypeLocal, cfg.Model, cfg.BaseURL, cfg.APIKey), nil
	case TypeDeepL:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("deepl provider requires an api key")
		}
		return newDeepLTranslator(cfg.Model, cfg.BaseURL, cfg.APIKey), nil
	case TypeGoogle:
		return newGoogleTranslator(cfg.Model, cfg.Credentials), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %q", cfg.Type)
	}
}

// Types lists the supported provider type tags.
func Types() []string {
	return []string{TypeOpenAI, TypeLocal, TypeDeepL, TypeGoogle}
}

// languageNames maps ISO 639-1 codes to English names for prompt
// construction; LLM backends follow full names far more reliably than codes.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"ru": "Russian",
	"ar": "Arabic",
	"hi": "Hindi",
	"hu": "Hungarian",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"th": "Thai",
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
