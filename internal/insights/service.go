package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/aggregator"
	"github.com/opsmind/phonesystem/backend/internal/cache"
	"github.com/opsmind/phonesystem/backend/internal/metrics"
	"github.com/opsmind/phonesystem/backend/internal/normalize"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

// CallSource fetches raw call records (the platform client in production).
type CallSource interface {
	ListCalls(ctx context.Context, filter types.CallFilter) ([]types.CallRecord, error)
	GetCall(ctx context.Context, callID string) (types.CallRecord, error)
}

// Service turns fetched calls into table rows, chart series and call detail.
type Service struct {
	source     CallSource
	cache      *cache.CallCache
	aggregator *aggregator.Aggregator
	location   *time.Location
	logger     zerolog.Logger
}

// NewService creates a new insights service
func NewService(source CallSource, callCache *cache.CallCache, agg *aggregator.Aggregator, location *time.Location, logger zerolog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		source:     source,
		cache:      callCache,
		aggregator: agg,
		location:   location,
		logger:     logger.With().Str("component", "insights").Logger(),
	}
}

// Calls returns the raw records for filter, from cache when fresh.
func (s *Service) Calls(ctx context.Context, filter types.CallFilter) ([]types.CallRecord, error) {
	if filter.Empty() {
		return nil, fmt.Errorf("call filter needs an assistant or phone id")
	}
	if records, ok := s.cache.Get(filter); ok {
		return records, nil
	}

	records, err := s.source.ListCalls(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	s.cache.Put(filter, records)

	s.logger.Debug().
		Str("assistant_id", filter.AssistantID).
		Str("phone_id", filter.PhoneNumberID).
		Int("calls", len(records)).
		Msg("calls fetched")
	return records, nil
}

// Rows returns one normalized table row per call, in upstream order.
func (s *Service) Rows(ctx context.Context, filter types.CallFilter) ([]types.CallRow, error) {
	records, err := s.Calls(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]types.CallRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, normalize.Row(rec, s.location))
	}
	metrics.Get().RecordNormalized(len(rows))
	return rows, nil
}

// Series returns the daily chart series for filter.
func (s *Service) Series(ctx context.Context, filter types.CallFilter) (types.TimeSeries, error) {
	records, err := s.Calls(ctx, filter)
	if err != nil {
		return types.TimeSeries{}, err
	}
	return s.aggregator.Aggregate(records), nil
}

// Detail fetches one call and prepares its page.
func (s *Service) Detail(ctx context.Context, callID string) (types.CallDetail, error) {
	rec, err := s.source.GetCall(ctx, callID)
	if err != nil {
		return types.CallDetail{}, fmt.Errorf("failed to get call %s: %w", callID, err)
	}
	metrics.Get().RecordNormalized(1)
	return normalize.Detail(rec, s.location), nil
}

// Invalidate drops cached lists for an assistant or phone.
func (s *Service) Invalidate(assistantID, phoneID string) int {
	return s.cache.Invalidate(assistantID, phoneID)
}
