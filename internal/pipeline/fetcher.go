package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/util"
)

// MaxPostChars caps the text taken from a fetched page
const MaxPostChars = 5000

const maxFetchAttempts = 3

// fetchSleepFunc is swapped in tests to skip backoff
var fetchSleepFunc = time.Sleep

// Fetcher downloads a post page so its text can be checked
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a Fetcher. Proxy settings fall back to the environment.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.ProxyFunc(model.HTTPConfig{HTTPProxy: httpProxy, HTTPSProxy: httpsProxy, NoProxy: noProxy}),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// FetchResult is a downloaded page and the post text found in it
type FetchResult struct {
	HTML     string
	Title    string
	Text     string
	FinalURL string
}

// FetchWithRetry fetches rawURL, retrying transient failures with linear backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || attempt == maxFetchAttempts {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fetchSleepFunc(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

// Fetch performs one GET and extracts the post text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text := ExtractPostText(string(body))
	return &FetchResult{
		HTML:     string(body),
		Title:    title,
		Text:     text,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// isRetryableFetchError reports whether err is worth another attempt:
// rate limiting, server errors and transport failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "fetch: ") {
		return true
	}
	for _, code := range []string{"429", "500", "502", "503", "504"} {
		if strings.HasPrefix(msg, "unexpected status: "+code) {
			return true
		}
	}
	return false
}

// skipElements never contribute visible post text
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "nav": true,
	"header": true, "footer": true, "aside": true, "form": true, "head": true,
}

// ExtractPostText returns the page title and the post text. og:description
// wins when present; otherwise the visible text of <article>, or of <body>.
func ExtractPostText(page string) (title, text string) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", ""
	}

	var description, ogTitle string
	var article, body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				prop := attr(n, "property")
				if prop == "" {
					prop = attr(n, "name")
				}
				switch prop {
				case "og:description":
					description = strings.TrimSpace(attr(n, "content"))
				case "og:title":
					ogTitle = strings.TrimSpace(attr(n, "content"))
				}
			case "article":
				if article == nil {
					article = n
				}
			case "body":
				body = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if ogTitle != "" {
		title = ogTitle
	}

	switch {
	case description != "":
		text = description
	case article != nil:
		text = visibleText(article)
	case body != nil:
		text = visibleText(body)
	}

	if r := []rune(text); len(r) > MaxPostChars {
		text = string(r[:MaxPostChars])
	}
	return title, text
}

func visibleText(root *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
