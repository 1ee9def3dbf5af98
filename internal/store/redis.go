package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore appends records to a Redis stream
type RedisStore struct {
	client *redis.Client
	stream string
}

// NewRedisStore creates a store that XADDs to stream
func NewRedisStore(addr, password string, db int, stream string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if stream == "" {
		stream = "misinformation_checks"
	}
	return &RedisStore{client: rdb, stream: stream}
}

// Ping checks that the server is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Append adds the record as one stream entry
func (s *RedisStore) Append(ctx context.Context, rec Record) error {
	values, err := streamValues(rec)
	if err != nil {
		return err
	}
	if err := s.client.XAdd(ctx, &redis.XAddArgs{Stream: s.stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// streamValues flattens a record into string stream fields
func streamValues(rec Record) (map[string]any, error) {
	signals, err := json.Marshal(rec.ManipulationSignals)
	if err != nil {
		return nil, fmt.Errorf("marshal signals: %w", err)
	}
	analysis, err := json.Marshal(rec.Analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return map[string]any{
		"id":                   rec.ID,
		"input_text":           rec.InputText,
		"language":             rec.Language,
		"risk_score":           strconv.FormatFloat(rec.RiskScore, 'f', 1, 64),
		"claims_count":         strconv.Itoa(rec.ClaimsCount),
		"evidence_count":       strconv.Itoa(rec.EvidenceCount),
		"manipulation_signals": string(signals),
		"analysis":             string(analysis),
		"timestamp":            rec.Timestamp.UTC().Format(time.RFC3339Nano),
		"latency_ms":           strconv.FormatInt(rec.LatencyMS, 10),
	}, nil
}

var _ ResultStore = (*RedisStore)(nil)
