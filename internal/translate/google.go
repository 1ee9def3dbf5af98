package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/util"
)

const defaultGoogleTranslateURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleProvider translates with the Cloud Translation v2 REST API
type GoogleProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// NewGoogleProvider creates a Cloud Translation provider
func NewGoogleProvider(cfg model.TranslateConfig, httpCfg model.HTTPConfig) (*GoogleProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google translate API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleTranslateURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &GoogleProvider{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: util.NewHTTPClient(httpCfg, timeout),
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// Translate posts the text as markdown-preserving plain text
func (p *GoogleProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	form := url.Values{}
	form.Set("q", text)
	form.Set("target", targetLang)
	form.Set("format", "text")
	form.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var decoded googleTranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Data.Translations) == 0 {
		return "", errors.New("no translations returned")
	}

	return decoded.Data.Translations[0].TranslatedText, nil
}
