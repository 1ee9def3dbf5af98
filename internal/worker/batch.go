package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/rumorscope/internal/model"
)

// Checker runs a single misinformation check
type Checker interface {
	Check(ctx context.Context, req model.CheckRequest) (*model.CheckResult, error)
}

// CheckJob checks one text
type CheckJob struct {
	Index   int
	Request model.CheckRequest
	Checker Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	result, err := j.Checker.Check(ctx, j.Request)
	return &CheckOutcome{
		Index:   j.Index,
		Request: j.Request,
		Result:  result,
		Error:   err,
	}
}

// CheckOutcome is the result of one check job
type CheckOutcome struct {
	Index   int
	Request model.CheckRequest
	Result  *model.CheckResult
	Error   error
}

// GetError returns the error from the check
func (o *CheckOutcome) GetError() error {
	return o.Error
}

// BatchProcessor checks many texts concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// Process checks every request and returns outcomes in input order
func (b *BatchProcessor) Process(ctx context.Context, requests []model.CheckRequest) []*CheckOutcome {
	if len(requests) == 0 {
		return []*CheckOutcome{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, req := range requests {
		pool.Submit(&CheckJob{
			Index:   i,
			Request: req,
			Checker: b.checker,
		})
	}

	results := pool.Wait()

	outcomes := make([]*CheckOutcome, 0, len(results))
	for _, r := range results {
		outcomes = append(outcomes, r.(*CheckOutcome))
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })

	return outcomes
}

// ProcessFile reads requests from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath, lang string) ([]*CheckOutcome, error) {
	requests, err := ReadRequestsFromFile(filePath, lang)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.Process(ctx, requests), nil
}

// ReadRequestsFromFile loads check requests. YAML files hold a list of
// {text, lang} entries; any other file holds one text per line, with blank
// lines and # comments skipped. Duplicate texts are dropped.
func ReadRequestsFromFile(filePath, lang string) ([]model.CheckRequest, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return readYAMLRequests(filePath, lang)
	default:
		return readLineRequests(filePath, lang)
	}
}

func readLineRequests(filePath, lang string) ([]model.CheckRequest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []model.CheckRequest
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			requests = append(requests, model.CheckRequest{Text: line, Lang: lang})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}

func readYAMLRequests(filePath, lang string) ([]model.CheckRequest, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var entries []struct {
		Text string `yaml:"text"`
		Lang string `yaml:"lang"`
	}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	var requests []model.CheckRequest
	seen := make(map[string]bool)
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true

		entryLang := e.Lang
		if entryLang == "" {
			entryLang = lang
		}
		requests = append(requests, model.CheckRequest{Text: text, Lang: entryLang})
	}
	return requests, nil
}
