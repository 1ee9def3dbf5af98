package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/worker"
)

// SearchClient queries the Google Custom Search JSON API restricted to one site per request
type SearchClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engineID   string
	userAgent  string
	limiter    *worker.Limiter
}

// NewSearchClient creates a site search client from configuration
func NewSearchClient(cfg *model.Config, limiter *worker.Limiter) *SearchClient {
	return &SearchClient{
		httpClient: newHTTPClient(cfg),
		baseURL:    cfg.Evidence.SearchBaseURL,
		apiKey:     cfg.Evidence.SearchAPIKey,
		engineID:   cfg.Evidence.SearchEngineID,
		userAgent:  cfg.HTTP.UserAgent,
		limiter:    limiter,
	}
}

// Configured reports whether the client has credentials and an engine id
func (c *SearchClient) Configured() bool {
	return c.baseURL != "" && c.apiKey != "" && c.engineID != ""
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		DisplayLink string `json:"displayLink"`
		Snippet     string `json:"snippet"`
		HTMLSnippet string `json:"htmlSnippet"`
		Pagemap     struct {
			Metatags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
}

// publishedKeys are the metatags that may carry a publication date
var publishedKeys = []string{"article:published_time", "og:updated_time", "article:modified_time", "date"}

// SearchAuthoritativeSites searches every scope concurrently; a failing site
// only fails its own Result
func (c *SearchClient) SearchAuthoritativeSites(ctx context.Context, query string, siteScopes []string) []Result[SiteResult] {
	results := make([]Result[SiteResult], len(siteScopes))

	var g errgroup.Group
	for i, site := range siteScopes {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					results[i] = recovered[SiteResult](site, rec)
				}
			}()
			hits, err := c.searchSite(ctx, query, site)
			if err != nil {
				results[i] = Failed[SiteResult](site, err)
			} else {
				results[i] = Ok(site, hits)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *SearchClient) searchSite(ctx context.Context, query, site string) ([]SiteResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", strings.TrimSpace(query+" "+site))
	params.Set("num", strconv.Itoa(model.MaxEvidencePerSource))
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

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	hits := make([]SiteResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if len(hits) == model.MaxEvidencePerSource {
			break
		}

		snippet := item.Snippet
		if item.HTMLSnippet != "" {
			snippet = StripHTML(item.HTMLSnippet)
		}

		hits = append(hits, SiteResult{
			URL:       item.Link,
			Title:     item.Title,
			Site:      site,
			Snippet:   snippet,
			Published: firstMetatag(item.Pagemap.Metatags, publishedKeys),
		})
	}
	return hits, nil
}

func firstMetatag(tags []map[string]string, keys []string) string {
	for _, tag := range tags {
		for _, key := range keys {
			if v := strings.TrimSpace(tag[key]); v != "" {
				return v
			}
		}
	}
	return ""
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed
func StripHTML(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fragment
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "br":
				buf.WriteString(" ")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(buf.String()), " ")
}
