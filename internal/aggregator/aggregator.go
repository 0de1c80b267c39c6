package aggregator

import (
	"math"
	"sort"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/metrics"
	"github.com/opsmind/phonesystem/backend/internal/normalize"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// DailyBucket accumulates the calls of one UTC calendar day. Sums are exact
// decimals so the fold does not depend on record order.
type DailyBucket struct {
	Day     string
	Seconds decimal.Decimal
	Calls   int
	Spent   decimal.Decimal
}

// Minutes is the bucket's talk time rounded to 2 places.
func (b *DailyBucket) Minutes() float64 {
	return b.Seconds.Div(sixty).Round(2).InexactFloat64()
}

// SpentUSD is the bucket's spend rounded to 4 places.
func (b *DailyBucket) SpentUSD() float64 {
	return b.Spent.Round(4).InexactFloat64()
}

// AvgCost is spend per call rounded to 4 places, 0 for an empty bucket.
func (b *DailyBucket) AvgCost() float64 {
	if b.Calls == 0 {
		return 0
	}
	return b.Spent.Div(decimal.NewFromInt(int64(b.Calls))).Round(4).InexactFloat64()
}

// Buckets folds records into per-day buckets. Records without a parseable
// startedAt or createdAt are counted in skipped and otherwise ignored.
func Buckets(records []types.CallRecord) (buckets map[string]*DailyBucket, skipped int) {
	buckets = make(map[string]*DailyBucket)
	for _, rec := range records {
		day, ok := normalize.CallDay(rec)
		if !ok {
			skipped++
			continue
		}

		b, exists := buckets[day]
		if !exists {
			b = &DailyBucket{Day: day}
			buckets[day] = b
		}

		b.Calls++
		if sec, ok := normalize.ElapsedSeconds(rec).Get(); ok && finite(sec) {
			b.Seconds = b.Seconds.Add(decimal.NewFromFloat(sec))
		}
		if usd, ok := normalize.ResolveCost(rec).Get(); ok && finite(usd) {
			b.Spent = b.Spent.Add(decimal.NewFromFloat(usd))
		}
	}
	return buckets, skipped
}

// finite guards decimal.NewFromFloat, which panics on NaN and Inf.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Series reads buckets into aligned series ordered by day. YYYY-MM-DD sorts
// chronologically as a string.
func Series(buckets map[string]*DailyBucket) types.TimeSeries {
	series := types.EmptySeries()
	for day := range buckets {
		series.Labels = append(series.Labels, day)
	}
	sort.Strings(series.Labels)

	for _, day := range series.Labels {
		b := buckets[day]
		series.Minutes = append(series.Minutes, b.Minutes())
		series.Calls = append(series.Calls, b.Calls)
		series.Spent = append(series.Spent, b.SpentUSD())
		series.AvgCost = append(series.AvgCost, b.AvgCost())
	}
	return series
}

// Aggregate buckets records by UTC day and returns the chart series.
func Aggregate(records []types.CallRecord) types.TimeSeries {
	buckets, _ := Buckets(records)
	return Series(buckets)
}

// Aggregator wraps Aggregate with logging and metrics.
type Aggregator struct {
	logger zerolog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate builds the series and records how many records were used.
func (a *Aggregator) Aggregate(records []types.CallRecord) types.TimeSeries {
	start := time.Now()
	buckets, skipped := Buckets(records)
	series := Series(buckets)

	metrics.Get().RecordAggregation(len(records)-skipped, skipped, time.Since(start))

	a.logger.Debug().
		Int("records", len(records)).
		Int("skipped", skipped).
		Int("days", len(series.Labels)).
		Msg("daily series built")

	return series
}
