// Package store appends check records to durable storage.
// Records are write-only from the pipeline's point of view.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/rumorscope/internal/model"
)

// Record is the persisted summary of one check
type Record struct {
	ID                  string                     `json:"id"`
	InputText           string                     `json:"input_text"`
	Language            string                     `json:"language"`
	RiskScore           float64                    `json:"risk_score"`
	ClaimsCount         int                        `json:"claims_count"`
	EvidenceCount       int                        `json:"evidence_count"`
	ManipulationSignals []model.ManipulationSignal `json:"manipulation_signals"`
	Analysis            model.Analysis             `json:"analysis"`
	Timestamp           time.Time                  `json:"timestamp"`
	LatencyMS           int64                      `json:"latency_ms"`
}

// NewRecord summarizes a result under a fresh opaque id
func NewRecord(result *model.CheckResult) Record {
	ts := result.CheckedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	signals := result.ManipulationSignals
	if signals == nil {
		signals = []model.ManipulationSignal{}
	}
	return Record{
		ID:                  uuid.NewString(),
		InputText:           result.Text,
		Language:            result.Lang,
		RiskScore:           result.Risk.Score,
		ClaimsCount:         len(result.Claims),
		EvidenceCount:       len(result.Evidence),
		ManipulationSignals: signals,
		Analysis:            result.Analysis,
		Timestamp:           ts.UTC(),
		LatencyMS:           result.Debug.LatencyMS,
	}
}

// ResultStore appends records. There is no update or delete.
type ResultStore interface {
	Append(ctx context.Context, rec Record) error
	Close() error
}

// NopStore discards every record
type NopStore struct{}

// Append does nothing
func (NopStore) Append(context.Context, Record) error { return nil }

// Close does nothing
func (NopStore) Close() error { return nil }
