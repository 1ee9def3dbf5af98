// Package translate localizes the explanation and lesson of a check
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/rumorscope/internal/logging"
	"github.com/ppiankov/rumorscope/internal/model"
)

// Provider translates text through an external service
type Provider interface {
	// Name returns the provider name
	Name() string

	// Translate returns text rendered in targetLang
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Translator wraps a Provider so that translation never fails the caller.
// The default language and empty text are returned unchanged, and provider
// errors return the original text.
type Translator struct {
	provider Provider
	logger   *log.Logger
}

// New creates a translator. A nil provider makes every call the identity.
func New(provider Provider) *Translator {
	return &Translator{provider: provider, logger: logging.WithPrefix("translate")}
}

// Identity returns a translator that never calls out
func Identity() *Translator {
	return New(nil)
}

// Provider returns the wrapped provider name, or "none"
func (t *Translator) Provider() string {
	if t == nil || t.provider == nil {
		return "none"
	}
	return t.provider.Name()
}

// Translate renders text in targetLang, or returns it unchanged
func (t *Translator) Translate(ctx context.Context, text, targetLang string) string {
	target := strings.ToLower(strings.TrimSpace(targetLang))
	if t == nil || t.provider == nil || target == "" || target == model.DefaultLanguage || strings.TrimSpace(text) == "" {
		return text
	}

	translated, err := t.provider.Translate(ctx, text, target)
	if err != nil {
		t.logger.Warn("translation failed, keeping original", "provider", t.provider.Name(), "lang", target, "err", err)
		return text
	}
	if strings.TrimSpace(translated) == "" {
		return text
	}
	return translated
}

// NewProvider creates the provider named in cfg. An empty name disables translation.
func NewProvider(cfg model.TranslateConfig, httpCfg model.HTTPConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg, httpCfg)
	case "google":
		return NewGoogleProvider(cfg, httpCfg)
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown translate provider: %s (supported: openai, ollama, google)", cfg.Provider)
	}
}

// buildPrompt asks a chat model for a bare translation that keeps markdown intact
func buildPrompt(text, targetLang string) string {
	return fmt.Sprintf(`Translate the following markdown into the language with ISO code %q.
Keep the markdown structure, emoji and bullet characters exactly as they are.
Reply with the translation only.

%s`, targetLang, text)
}

const systemPrompt = "You are a careful translator for public health and fact-checking notices."
