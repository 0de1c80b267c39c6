package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/aggregator"
	"github.com/opsmind/phonesystem/backend/internal/cache"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

type fakeSource struct {
	listCalls int
	records   []types.CallRecord
	detail    types.CallRecord
	err       error
}

func (f *fakeSource) ListCalls(_ context.Context, _ types.CallFilter) ([]types.CallRecord, error) {
	f.listCalls++
	return f.records, f.err
}

func (f *fakeSource) GetCall(_ context.Context, _ string) (types.CallRecord, error) {
	return f.detail, f.err
}

func newTestService(t *testing.T, source *fakeSource, ttl time.Duration) *Service {
	t.Helper()
	return NewService(source, cache.NewCallCache(ttl), aggregator.NewAggregator(zerolog.Nop()), nil, zerolog.Nop())
}

func mustDecodeList(t *testing.T, body string) []types.CallRecord {
	t.Helper()
	records, err := types.DecodeCallList([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestRowsAndSeriesShareOneFetch(t *testing.T) {
	source := &fakeSource{records: mustDecodeList(t, `[
		{"id":"c1","startedAt":"2024-01-01T10:00:00Z","duration":60,"cost":0.5},
		{"id":"c2","startedAt":"2024-01-02T10:00:00Z","duration":120,"cost":0.25}
	]`)}
	svc := newTestService(t, source, time.Minute)
	filter := types.CallFilter{AssistantID: "a1"}

	rows, err := svc.Rows(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].Display.Cost != "$0.5000" {
		t.Errorf("unexpected rows %+v", rows)
	}

	series, err := svc.Series(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Labels) != 2 || series.Calls[1] != 1 {
		t.Errorf("unexpected series %+v", series)
	}

	if source.listCalls != 1 {
		t.Errorf("expected one upstream fetch, got %d", source.listCalls)
	}

	svc.Invalidate("a1", "")
	if _, err := svc.Rows(context.Background(), filter); err != nil {
		t.Fatal(err)
	}
	if source.listCalls != 2 {
		t.Errorf("expected a refetch after invalidation, got %d", source.listCalls)
	}
}

func TestCallsRequiresFilter(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, time.Minute)
	if _, err := svc.Rows(context.Background(), types.CallFilter{}); err == nil {
		t.Error("expected error for empty filter")
	}
}

func TestUpstreamErrorIsWrapped(t *testing.T) {
	sentinel := errors.New("boom")
	svc := newTestService(t, &fakeSource{err: sentinel}, time.Minute)

	if _, err := svc.Series(context.Background(), types.CallFilter{PhoneNumberID: "p1"}); !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if _, err := svc.Detail(context.Background(), "c1"); !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestDetail(t *testing.T) {
	rec, err := types.DecodeCall([]byte(`{"id":"c1","transcript":"AI: hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	svc := newTestService(t, &fakeSource{detail: rec}, time.Minute)

	detail, err := svc.Detail(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Transcript != "AI: hello" {
		t.Errorf("unexpected transcript %q", detail.Transcript)
	}
}
