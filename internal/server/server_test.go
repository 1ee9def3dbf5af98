package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/ppiankov/rumorscope/internal/evidence"
	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/pipeline"
	"github.com/ppiankov/rumorscope/internal/translate"
)

type panicChecker struct{}

// failingChecker returns an error that is not caused by the request
type failingChecker struct{}

func (failingChecker) Check(ctx context.Context, req model.CheckRequest) (*model.CheckResult, error) {
	return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func (panicChecker) Check(ctx context.Context, req model.CheckRequest) (*model.CheckResult, error) {
	panic("index out of range")
}

func newTestServer(t *testing.T, debug bool) *httptest.Server {
	t.Helper()
	p := pipeline.New(model.DefaultConfig(),
		pipeline.WithSource(evidence.NopSource{}),
		pipeline.WithTranslator(translate.Identity()),
	)
	cfg := model.DefaultConfig().Server
	cfg.Debug = debug
	srv := httptest.NewServer(New(p, cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Post(url+"/v1/check", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestCheck_Detailed(t *testing.T) {
	srv := newTestServer(t, false)

	resp, body := post(t, srv.URL, `{"text":"Drinking hot water cures dengue in 24 hours!!!"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	for _, k := range []string{"risk", "claims", "evidence", "manipulation_signals", "explanation_md", "lesson_md", "analysis", "debug"} {
		if _, ok := body[k]; !ok {
			t.Errorf("missing key %q in %v", k, keys(body))
		}
	}

	var risk model.RiskScore
	if err := json.Unmarshal(body["risk"], &risk); err != nil {
		t.Fatal(err)
	}
	if risk.Score != 76.7 || len(risk.Rationales) != 4 {
		t.Errorf("unexpected risk %+v", risk)
	}

	var evidenceItems []map[string]any
	if err := json.Unmarshal(body["evidence"], &evidenceItems); err != nil {
		t.Fatal(err)
	}
	if len(evidenceItems) != 3 || evidenceItems[0]["api_source"] != "mock_authoritative" {
		t.Errorf("unexpected evidence %v", evidenceItems)
	}
}

func TestCheck_SimpleHasExactlyThreeKeys(t *testing.T) {
	srv := newTestServer(t, false)

	resp, body := post(t, srv.URL, `{"text":"Shocking breakthrough!!!","return_level":"simple"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := strings.Join(keys(body), ",")
	if got != "explanation_md,lesson_md,risk" {
		t.Errorf("expected exactly risk, explanation_md, lesson_md; got %s", got)
	}
}

func TestCheck_BadRequests(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing text", `{}`, msgTextRequired},
		{"blank text", `{"text":"   "}`, msgTextRequired},
		{"invalid json", `{"text":`, msgTextRequired},
		{"unknown level", `{"text":"x","return_level":"verbose"}`, `unknown return_level "verbose" (supported: detailed, simple)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv.URL, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
			var msg string
			_ = json.Unmarshal(body["error"], &msg)
			if msg != tt.want {
				t.Errorf("error = %q, want %q", msg, tt.want)
			}
		})
	}
}

func TestCheck_PanicHidesDetailOutsideDebug(t *testing.T) {
	for _, debug := range []bool{false, true} {
		cfg := model.DefaultConfig().Server
		cfg.Debug = debug
		srv := httptest.NewServer(New(panicChecker{}, cfg).Handler())

		resp, body := post(t, srv.URL, `{"text":"anything"}`)
		srv.Close()

		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		var msg string
		_ = json.Unmarshal(body["error"], &msg)
		if msg != msgInternalError {
			t.Errorf("unexpected error %q", msg)
		}

		raw, ok := body["debug"]
		if !ok {
			t.Fatal("debug key must always be present")
		}
		if debug && string(raw) != `"index out of range"` {
			t.Errorf("expected panic detail in debug mode, got %s", raw)
		}
		if !debug && string(raw) != "null" {
			t.Errorf("expected null debug outside debug mode, got %s", raw)
		}
	}
}

func TestHealthAndRouting(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from healthz, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/v1/check")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET /v1/check, got %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, false)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/v1/check", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected permissive CORS origin")
	}
}

func TestCheck_InternalErrorIsNotBadRequest(t *testing.T) {
	for _, debug := range []bool{false, true} {
		cfg := model.DefaultConfig().Server
		cfg.Debug = debug
		srv := httptest.NewServer(New(failingChecker{}, cfg).Handler())

		resp, body := post(t, srv.URL, `{"text":"anything"}`)
		srv.Close()

		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		var msg string
		_ = json.Unmarshal(body["error"], &msg)
		if msg != msgInternalError {
			t.Errorf("internal detail leaked into error: %q", msg)
		}
		if !debug && string(body["debug"]) != "null" {
			t.Errorf("expected null debug outside debug mode, got %s", body["debug"])
		}
		if debug && !strings.Contains(string(body["debug"]), "connection refused") {
			t.Errorf("expected detail in debug mode, got %s", body["debug"])
		}
	}
}
