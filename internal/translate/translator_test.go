package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/rumorscope/internal/model"
)

type stubProvider struct {
	out   string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestTranslator_DefaultLanguageIsIdentity(t *testing.T) {
	stub := &stubProvider{out: "changed"}
	tr := New(stub)

	for _, lang := range []string{"en", "EN", " en ", ""} {
		if got := tr.Translate(context.Background(), "**hello**", lang); got != "**hello**" {
			t.Errorf("lang %q: expected original text, got %q", lang, got)
		}
	}
	if stub.calls != 0 {
		t.Errorf("provider must not be called for the default language, got %d calls", stub.calls)
	}
}

func TestTranslator_FailureReturnsOriginal(t *testing.T) {
	tr := New(&stubProvider{err: errors.New("quota")})

	if got := tr.Translate(context.Background(), "text", "hi"); got != "text" {
		t.Errorf("expected original text, got %q", got)
	}

	tr = New(&stubProvider{out: "   "})
	if got := tr.Translate(context.Background(), "text", "hi"); got != "text" {
		t.Errorf("expected original text for blank translation, got %q", got)
	}
}

func TestTranslator_Identity(t *testing.T) {
	tr := Identity()
	if got := tr.Translate(context.Background(), "text", "ta"); got != "text" {
		t.Errorf("identity translator changed text: %q", got)
	}
	if tr.Provider() != "none" {
		t.Errorf("expected provider none, got %s", tr.Provider())
	}
}

func TestTranslator_UsesProvider(t *testing.T) {
	tr := New(&stubProvider{out: "नमस्ते"})
	if got := tr.Translate(context.Background(), "hello", "hi"); got != "नमस्ते" {
		t.Errorf("unexpected translation %q", got)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(model.TranslateConfig{}, model.HTTPConfig{})
	if err != nil || p != nil {
		t.Errorf("empty provider should disable translation, got %v %v", p, err)
	}

	if _, err := NewProvider(model.TranslateConfig{Provider: "babel"}, model.HTTPConfig{}); err == nil {
		t.Error("expected error for unknown provider")
	}

	if _, err := NewProvider(model.TranslateConfig{Provider: "openai"}, model.HTTPConfig{}); err == nil {
		t.Error("expected error for openai without API key")
	}

	p, err = NewProvider(model.TranslateConfig{Provider: "Ollama", Model: "llama3.1"}, model.HTTPConfig{})
	if err != nil || p.Name() != "ollama" {
		t.Errorf("expected ollama provider, got %v %v", p, err)
	}
}

func TestOpenAIProvider_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, `"hi"`) {
			t.Errorf("prompt should name the target language: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  अनुवाद  "},
			}},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(model.TranslateConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	got, err := p.Translate(context.Background(), "translation", "hi")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "अनुवाद" {
		t.Errorf("unexpected translation %q", got)
	}
}

func TestOllamaProvider_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream || req.Model != "llama3.1" {
			t.Errorf("unexpected request %+v", req)
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.1", Response: "traducción", Done: true})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(model.TranslateConfig{BaseURL: server.URL + "/", Model: "llama3.1", Timeout: 5}, model.HTTPConfig{})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	got, err := p.Translate(context.Background(), "translation", "es")
	if err != nil || got != "traducción" {
		t.Errorf("unexpected result %q %v", got, err)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	p, _ := NewOllamaProvider(model.TranslateConfig{BaseURL: server.URL, Model: "missing"}, model.HTTPConfig{})
	_, err := p.Translate(context.Background(), "x", "es")
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected API error, got %v", err)
	}

	// the wrapper hides the failure
	if got := New(p).Translate(context.Background(), "x", "es"); got != "x" {
		t.Errorf("expected original text, got %q", got)
	}
}

func TestGoogleProvider_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("target") != "ta" || r.PostForm.Get("key") != "k" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"மொழிபெயர்ப்பு"}]}}`))
	}))
	defer server.Close()

	p, err := NewGoogleProvider(model.TranslateConfig{APIKey: "k", BaseURL: server.URL}, model.HTTPConfig{})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	got, err := p.Translate(context.Background(), "translation", "ta")
	if err != nil || got != "மொழிபெயர்ப்பு" {
		t.Errorf("unexpected result %q %v", got, err)
	}
}
