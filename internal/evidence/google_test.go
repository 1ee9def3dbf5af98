package evidence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/rumorscope/internal/cache"
	"github.com/ppiankov/rumorscope/internal/logging"
	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/worker"
)

const factCheckJSON = `{
  "claims": [{
    "text": "Hot water cures dengue",
    "claimReview": [
      {"publisher": {"name": "Fact Desk"}, "url": "https://factdesk.example/1", "title": "No, hot water does not cure dengue", "reviewDate": "2024-06-10T00:00:00Z", "textualRating": "False"},
      {"publisher": {"name": ""}, "url": "https://other.example/2", "title": "Dengue remedies", "textualRating": "Mixed"}
    ]
  }]
}`

func testConfig(factCheckURL, searchURL string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 2 * time.Second
	cfg.Evidence.FactCheckBaseURL = factCheckURL
	cfg.Evidence.SearchBaseURL = searchURL
	return cfg
}

func TestFactCheckClient_PrimaryTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected API key in query, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("query") != "hot water cures dengue" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("languageCode") != "en" {
			t.Errorf("expected languageCode=en, got %q", r.URL.Query().Get("languageCode"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, factCheckJSON)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	cfg.Evidence.FactCheckAPIKey = "test-key"
	client := NewFactCheckClient(cfg, worker.NewLimiter(0, 1))

	res := client.SearchFactChecks(context.Background(), "hot water cures dengue")
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if len(res.Data) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(res.Data))
	}
	first := res.Data[0]
	if first.Publisher != "Fact Desk" || first.TextualRating != "False" || first.Origin != model.OriginFactCheck {
		t.Errorf("unexpected review: %+v", first)
	}
}

func TestFactCheckClient_FallsBackToBearerTransport(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") == "Bearer test-token" {
			_, _ = fmt.Fprint(w, factCheckJSON)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	cfg.Evidence.FactCheckAPIKey = "revoked"
	cfg.Evidence.FactCheckToken = "test-token"
	client := NewFactCheckClient(cfg, nil)

	res := client.SearchFactChecks(context.Background(), "q")
	if res.Failed() {
		t.Fatalf("expected fallback success, got %v", res.Err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls (primary + fallback), got %d", calls.Load())
	}
	if res.Data[0].Origin != model.OriginFactCheckDirect {
		t.Errorf("expected direct origin, got %s", res.Data[0].Origin)
	}
}

func TestFactCheckClient_BothTransportsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	cfg.Evidence.FactCheckAPIKey = "k"
	cfg.Evidence.FactCheckToken = "t"
	client := NewFactCheckClient(cfg, nil)

	res := client.SearchFactChecks(context.Background(), "q")
	if !res.Failed() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Err.Error(), "unexpected status: 500") {
		t.Errorf("unexpected error: %v", res.Err)
	}
}

func TestFactCheckClient_NotConfigured(t *testing.T) {
	client := NewFactCheckClient(model.DefaultConfig(), nil)

	if client.Configured() {
		t.Error("default config should have no fact-check credentials")
	}
	res := client.SearchFactChecks(context.Background(), "q")
	if !res.Failed() || !errors.Is(res.Err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", res.Err)
	}
}

func TestFactCheckClient_CapsReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reviews []string
		for i := 0; i < 8; i++ {
			reviews = append(reviews, fmt.Sprintf(`{"url":"https://x.example/%d","title":"t","textualRating":"True"}`, i))
		}
		_, _ = fmt.Fprintf(w, `{"claims":[{"claimReview":[%s]}]}`, strings.Join(reviews, ","))
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	cfg.Evidence.FactCheckAPIKey = "k"
	res := NewFactCheckClient(cfg, nil).SearchFactChecks(context.Background(), "q")

	if len(res.Data) != model.MaxEvidencePerSource {
		t.Errorf("expected %d reviews, got %d", model.MaxEvidencePerSource, len(res.Data))
	}
}

func TestSearchClient_PerSiteIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if r.URL.Query().Get("cx") != "engine" {
			t.Errorf("expected engine id, got %q", r.URL.Query().Get("cx"))
		}
		if strings.HasSuffix(q, "site:who.int") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, `{"items":[{
			"title":"Dengue fact sheet",
			"link":"https://cdc.gov/dengue",
			"snippet":"plain",
			"htmlSnippet":"No <b>home remedy</b> cures<br>dengue",
			"pagemap":{"metatags":[{"article:published_time":"2024-06-14T00:00:00Z"}]}
		}]}`)
	}))
	defer server.Close()

	cfg := testConfig("", server.URL)
	cfg.Evidence.SearchAPIKey = "k"
	cfg.Evidence.SearchEngineID = "engine"
	client := NewSearchClient(cfg, nil)

	results := client.SearchAuthoritativeSites(context.Background(), "dengue cure", []string{"site:who.int", "site:cdc.gov"})

	if len(results) != 2 {
		t.Fatalf("expected one result per site, got %d", len(results))
	}
	if !results[0].Failed() || results[0].Source != "site:who.int" {
		t.Errorf("expected who.int to fail, got %+v", results[0])
	}
	if results[1].Failed() {
		t.Fatalf("expected cdc.gov to succeed, got %v", results[1].Err)
	}
	hit := results[1].Data[0]
	if hit.Snippet != "No home remedy cures dengue" {
		t.Errorf("expected stripped snippet, got %q", hit.Snippet)
	}
	if hit.Published != "2024-06-14T00:00:00Z" || hit.Site != "site:cdc.gov" {
		t.Errorf("unexpected hit: %+v", hit)
	}
}

func TestSearchClient_NotConfigured(t *testing.T) {
	client := NewSearchClient(model.DefaultConfig(), nil)

	results := client.SearchAuthoritativeSites(context.Background(), "q", []string{"site:who.int"})
	if len(results) != 1 || !errors.Is(results[0].Err, ErrNotConfigured) {
		t.Errorf("expected not configured failure, got %+v", results)
	}
}

func TestStripHTML(t *testing.T) {
	tests := map[string]string{
		"<b>bold</b> text":              "bold text",
		"a<br>b":                        "a b",
		"  spaced   <i>out</i>  ":       "spaced out",
		"plain":                         "plain",
		"x<script>alert(1)</script>y":   "xy",
		"Fish &amp; chips":              "Fish & chips",
	}
	for in, want := range tests {
		if got := StripHTML(in); got != want {
			t.Errorf("StripHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

type countingSource struct {
	fakeSource
	fcCalls   atomic.Int32
	siteCalls atomic.Int32
}

func (c *countingSource) SearchFactChecks(ctx context.Context, query string) Result[ClaimReview] {
	c.fcCalls.Add(1)
	return c.fakeSource.SearchFactChecks(ctx, query)
}

func (c *countingSource) SearchAuthoritativeSites(ctx context.Context, query string, scopes []string) []Result[SiteResult] {
	c.siteCalls.Add(int32(len(scopes)))
	return c.fakeSource.SearchAuthoritativeSites(ctx, query, scopes)
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{fakeSource: fakeSource{
		reviews:   reviews(1, "False"),
		sites:     map[string][]SiteResult{"site:cdc.gov": {{URL: "https://cdc.gov/x", Site: "site:cdc.gov"}}},
		failSites: map[string]bool{"site:who.int": true},
	}}
	src := NewCachedSource(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	scopes := []string{"site:who.int", "site:cdc.gov"}

	for i := 0; i < 3; i++ {
		if res := src.SearchFactChecks(context.Background(), "q"); res.Failed() || len(res.Data) != 1 {
			t.Fatalf("unexpected fact check result: %+v", res)
		}
		results := src.SearchAuthoritativeSites(context.Background(), "q", scopes)
		if !results[0].Failed() || results[1].Failed() {
			t.Fatalf("unexpected site results: %+v", results)
		}
	}

	if inner.fcCalls.Load() != 1 {
		t.Errorf("expected 1 fact check call, got %d", inner.fcCalls.Load())
	}
	// who.int fails every time and is never cached; cdc.gov is fetched once
	if inner.siteCalls.Load() != 4 {
		t.Errorf("expected 4 site lookups, got %d", inner.siteCalls.Load())
	}
}

func TestGoogleSource_Availability(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Evidence.FactCheckAPIKey = "k"

	got := NewGoogleSource(cfg, nil).Availability()
	if !got["fact_check"] || got["custom_search"] {
		t.Errorf("unexpected availability: %v", got)
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.Init(&buf, "info")
	t.Cleanup(func() { logging.Init(os.Stderr, "info") })
	return &buf
}

func TestFactCheckClient_KeyOnlyFailureIsWarned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, "")
	cfg.Evidence.FactCheckAPIKey = "k"
	client := NewFactCheckClient(cfg, nil)

	res := client.SearchFactChecks(context.Background(), "hot water cures dengue")
	if !res.Failed() {
		t.Fatal("expected failure")
	}
	if errors.Is(res.Err, ErrNotConfigured) {
		t.Errorf("an unconfigured bearer transport must not mask the key failure: %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "unexpected status: 403") {
		t.Errorf("expected the 403 to be reported, got %v", res.Err)
	}

	buf := captureLogs(t)
	agg := NewAggregator(NewGoogleSource(cfg, nil), nil, 1)
	agg.Collect(context.Background(), []model.Claim{{Text: "hot water cures dengue"}})

	out := buf.String()
	if !strings.Contains(out, "evidence lookup failed") || !strings.Contains(out, "403") {
		t.Errorf("expected the 403 to be logged at warn, got %q", out)
	}
}

func TestFactCheckClient_UnconfiguredIsNotWarned(t *testing.T) {
	cfg := testConfig("https://factcheck.invalid", "")
	res := NewFactCheckClient(cfg, nil).SearchFactChecks(context.Background(), "q")
	if !errors.Is(res.Err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", res.Err)
	}

	buf := captureLogs(t)
	agg := NewAggregator(NewGoogleSource(cfg, nil), nil, 1)
	agg.Collect(context.Background(), []model.Claim{{Text: "q"}})
	if buf.Len() != 0 {
		t.Errorf("missing credentials should only log at debug, got %q", buf.String())
	}
}

func TestSearchClient_PanicFailsOnlyThatSite(t *testing.T) {
	// nil http client: every request panics inside its goroutine
	client := &SearchClient{baseURL: "https://search.invalid", apiKey: "k", engineID: "cx"}

	results := client.SearchAuthoritativeSites(context.Background(), "q", []string{"site:who.int", "site:cdc.gov"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.Err, ErrSourcePanic) {
			t.Errorf("%s: expected ErrSourcePanic, got %v", res.Source, res.Err)
		}
	}
}
