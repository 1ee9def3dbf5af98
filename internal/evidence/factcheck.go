package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/util"
	"github.com/ppiankov/rumorscope/internal/worker"
)

// FactCheckClient queries the Google Fact Check Tools claims:search endpoint.
// The primary transport authenticates with an API key; if it fails, one
// attempt is made through the bearer-token transport before giving up.
type FactCheckClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	token        string
	languageCode string
	userAgent    string
	limiter      *worker.Limiter
}

// NewFactCheckClient creates a fact-check client from configuration
func NewFactCheckClient(cfg *model.Config, limiter *worker.Limiter) *FactCheckClient {
	return &FactCheckClient{
		httpClient:   newHTTPClient(cfg),
		baseURL:      cfg.Evidence.FactCheckBaseURL,
		apiKey:       cfg.Evidence.FactCheckAPIKey,
		token:        cfg.Evidence.FactCheckToken,
		languageCode: cfg.Evidence.LanguageCode,
		userAgent:    cfg.HTTP.UserAgent,
		limiter:      limiter,
	}
}

// Configured reports whether any transport has credentials
func (c *FactCheckClient) Configured() bool {
	return c.baseURL != "" && (c.apiKey != "" || c.token != "")
}

type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// SearchFactChecks returns up to model.MaxEvidencePerSource reviews for query
func (c *FactCheckClient) SearchFactChecks(ctx context.Context, query string) Result[ClaimReview] {
	reviews, err := c.search(ctx, query, false)
	if err == nil {
		return Ok("factcheck", tagOrigin(reviews, model.OriginFactCheck))
	}

	direct, directErr := c.search(ctx, query, true)
	switch {
	case directErr == nil:
		return Ok("factcheck", tagOrigin(direct, model.OriginFactCheckDirect))
	case errors.Is(directErr, ErrNotConfigured):
		// only the key transport ran; its error is the outcome
		return Failed[ClaimReview]("factcheck", err)
	case errors.Is(err, ErrNotConfigured):
		return Failed[ClaimReview]("factcheck", directErr)
	default:
		return Failed[ClaimReview]("factcheck", fmt.Errorf("primary: %w; fallback: %v", err, directErr))
	}
}

func (c *FactCheckClient) search(ctx context.Context, query string, useToken bool) ([]ClaimReview, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	if useToken && c.token == "" {
		return nil, ErrNotConfigured
	}
	if !useToken && c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	if c.languageCode != "" {
		params.Set("languageCode", c.languageCode)
	}
	if !useToken {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + "?" + params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, reqURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if useToken {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, string(body))
	}

	var decoded factCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var reviews []ClaimReview
	for _, claim := range decoded.Claims {
		for _, r := range claim.ClaimReview {
			if len(reviews) == model.MaxEvidencePerSource {
				return reviews, nil
			}
			reviews = append(reviews, ClaimReview{
				URL:           r.URL,
				Title:         r.Title,
				Publisher:     r.Publisher.Name,
				TextualRating: r.TextualRating,
				ReviewDate:    r.ReviewDate,
			})
		}
	}
	return reviews, nil
}

func tagOrigin(reviews []ClaimReview, origin model.Origin) []ClaimReview {
	for i := range reviews {
		reviews[i].Origin = origin
	}
	return reviews
}

// newHTTPClient builds an outbound client honouring the proxy settings
func newHTTPClient(cfg *model.Config) *http.Client {
	timeout := cfg.HTTP.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return util.NewHTTPClient(cfg.HTTP, timeout)
}
