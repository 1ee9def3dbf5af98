// Package pipeline orchestrates one misinformation check end to end
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/rumorscope/internal/cache"
	"github.com/ppiankov/rumorscope/internal/detect"
	"github.com/ppiankov/rumorscope/internal/evidence"
	"github.com/ppiankov/rumorscope/internal/extract"
	"github.com/ppiankov/rumorscope/internal/logging"
	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/narrative"
	"github.com/ppiankov/rumorscope/internal/score"
	"github.com/ppiankov/rumorscope/internal/store"
	"github.com/ppiankov/rumorscope/internal/translate"
)

// nowFunc is swapped in tests to control timestamps and latency
var nowFunc = time.Now

// Pipeline runs detection, extraction, evidence collection, scoring,
// narration, translation and persistence for each request
type Pipeline struct {
	detector   *detect.Detector
	extractor  *extract.ClaimExtractor
	source     evidence.Source
	aggregator *evidence.Aggregator
	scorer     *score.Scorer
	translator *translate.Translator
	store      store.ResultStore
	logger     *log.Logger
}

// Option overrides one collaborator of the pipeline
type Option func(*Pipeline)

// WithSource replaces the evidence source built from configuration
func WithSource(src evidence.Source) Option {
	return func(p *Pipeline) { p.source = src }
}

// WithStore sets where check records are appended
func WithStore(s store.ResultStore) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithTranslator replaces the translator built from configuration
func WithTranslator(t *translate.Translator) Option {
	return func(p *Pipeline) { p.translator = t }
}

// New builds a pipeline from configuration. Collaborators that are not
// overridden are created from cfg; the store defaults to a no-op.
func New(cfg *model.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	detector := detect.NewDetector()
	p := &Pipeline{
		detector:  detector,
		extractor: extract.NewClaimExtractor(detector),
		scorer:    score.NewScorerWithAuthority(score.NewAuthorityMatcher(cfg.Scoring.AuthoritativeSources)),
		store:     store.NopStore{},
		logger:    logging.WithPrefix("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		p.source = newSource(cfg)
	}
	if p.translator == nil {
		p.translator = newTranslator(cfg, p.logger)
	}
	p.aggregator = evidence.NewAggregator(p.source, cfg.Evidence.SiteScopes, cfg.Evidence.Concurrency)

	return p
}

func newSource(cfg *model.Config) evidence.Source {
	var src evidence.Source = evidence.NewGoogleSource(cfg, nil)
	if cfg.Cache.Enabled {
		src = evidence.NewCachedSource(src, cache.New(cfg.Cache.TTL, cfg.Cache.Dir), cfg.Cache.TTL)
	}
	return src
}

func newTranslator(cfg *model.Config, logger *log.Logger) *translate.Translator {
	provider, err := translate.NewProvider(cfg.Translate, cfg.HTTP)
	if err != nil {
		logger.Warn("translation disabled", "err", err)
		return translate.Identity()
	}
	return translate.New(provider)
}

// Check assesses one request. Invalid requests fail with an error matching
// model.ErrInvalidRequest; collaborator failures are absorbed and logged.
// A panic anywhere in the run is returned as an error.
func (p *Pipeline) Check(ctx context.Context, req model.CheckRequest) (result *model.CheckResult, err error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("check panicked", "panic", rec)
			result, err = nil, fmt.Errorf("check failed: %v", rec)
		}
	}()
	start := nowFunc()

	signals := p.detector.ManipulationSignals(req.Text)
	claims := p.extractor.Extract(req.Text, req.Lang)
	ev := p.aggregator.Collect(ctx, claims)
	risk := p.scorer.Calculate(claims, ev, signals)

	explanation := narrative.Explain(claims, ev, risk)
	lesson := narrative.Lesson(signals)
	if req.Lang != model.DefaultLanguage {
		explanation = p.translator.Translate(ctx, explanation, req.Lang)
		lesson = p.translator.Translate(ctx, lesson, req.Lang)
	}

	result = &model.CheckResult{
		Text:                req.Text,
		Lang:                req.Lang,
		CheckedAt:           start.UTC(),
		Risk:                risk,
		Claims:              claims,
		Evidence:            ev,
		ManipulationSignals: signals,
		Explanation:         explanation,
		Lesson:              lesson,
		Analysis: model.Analysis{
			ClaimsExtracted:  len(claims) > 0,
			Confidence:       meanConfidence(claims),
			LanguageDetected: req.Lang,
			EntitiesFound:    p.detector.Entities(req.Text),
			Sentiment:        p.detector.Sentiment(req.Text),
		},
		Debug: model.Diagnostics{
			SourcesAvailable: p.availability(),
		},
	}
	result.Debug.LatencyMS = nowFunc().Sub(start).Milliseconds()

	p.persist(ctx, result)

	p.logger.Debug("check complete",
		"score", risk.Score,
		"claims", len(claims),
		"evidence", len(ev),
		"signals", len(signals),
		"latency_ms", result.Debug.LatencyMS,
	)
	return result, nil
}

// persist appends the record; failures are logged and never returned
func (p *Pipeline) persist(ctx context.Context, result *model.CheckResult) {
	rec := store.NewRecord(result)
	if err := p.store.Append(ctx, rec); err != nil {
		p.logger.Warn("failed to store check", "id", rec.ID, "err", err)
	}
}

func (p *Pipeline) availability() map[string]bool {
	out := map[string]bool{}
	if a, ok := p.source.(evidence.Available); ok {
		for k, v := range a.Availability() {
			out[k] = v
		}
	}
	out["translation"] = p.translator.Provider() != "none"
	return out
}

// Close releases the store
func (p *Pipeline) Close() error {
	return p.store.Close()
}

func meanConfidence(claims []model.Claim) float64 {
	if len(claims) == 0 {
		return 0
	}
	var sum float64
	for _, c := range claims {
		sum += c.Confidence
	}
	return math.Round(sum/float64(len(claims))*100) / 100
}
