package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/rumorscope/internal/model"
)

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := initConfigFile(path); err != nil {
		t.Fatalf("initConfigFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Rumorscope Configuration File") {
		t.Error("expected header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Server.Addr != model.DefaultConfig().Server.Addr {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if len(cfg.Evidence.SiteScopes) != len(model.DefaultSiteScopes) {
		t.Errorf("expected site scopes to round trip, got %v", cfg.Evidence.SiteScopes)
	}

	if err := initConfigFile(path); err == nil {
		t.Error("expected error when the config already exists")
	}
}

func TestRedacted(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Evidence.FactCheckAPIKey = "secret"
	cfg.Translate.APIKey = "sk-123"

	r := redacted(cfg)
	if r.Evidence.FactCheckAPIKey != "********" || r.Translate.APIKey != "********" {
		t.Errorf("secrets not masked: %+v", r.Evidence)
	}
	if r.Evidence.SearchAPIKey != "" {
		t.Error("empty secrets stay empty")
	}
	if cfg.Evidence.FactCheckAPIKey != "secret" {
		t.Error("redacted must not modify the original")
	}

	var buf bytes.Buffer
	if err := writeConfigYAML(&buf, r); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "sk-123") {
		t.Error("secret leaked into YAML output")
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short", 10); got != "short" {
		t.Errorf("unexpected preview %q", got)
	}
	if got := preview("line one\nline two", 40); got != "line one line two" {
		t.Errorf("newlines should be flattened, got %q", got)
	}
	if got := preview("abcdefghij", 5); got != "abcd…" {
		t.Errorf("expected truncation to 5 runes, got %q", got)
	}
	if got := preview("डेंगू का इलाज", 6); len([]rune(got)) != 6 {
		t.Errorf("expected 6 runes, got %q", got)
	}
}

func TestVerdictLine(t *testing.T) {
	result := &model.CheckResult{Risk: model.RiskScore{Score: 76.7}}
	line := verdictLine(result)
	if !strings.Contains(line, "76.7") || !strings.Contains(line, "likely false") {
		t.Errorf("unexpected verdict line %q", line)
	}
}

func TestInputText_Argument(t *testing.T) {
	checkURL = ""
	text, err := inputText(t.Context(), model.DefaultConfig(), []string{"Miracle cure"}, strings.NewReader("ignored"))
	if err != nil || text != "Miracle cure" {
		t.Errorf("unexpected %q %v", text, err)
	}

	text, err = inputText(t.Context(), model.DefaultConfig(), nil, strings.NewReader("from stdin"))
	if err != nil || text != "from stdin" {
		t.Errorf("unexpected %q %v", text, err)
	}
}
