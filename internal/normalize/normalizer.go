// Package normalize turns raw platform call records into fixed-shape
// summaries. Every attribute is resolved through an ordered list of
// candidate fields; the first one that yields a usable value wins and
// anything left over becomes the unknown marker. Nothing here returns an
// error.
package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/types"
)

// MillisecondThreshold is the cutoff above which a raw numeric duration is
// read as milliseconds. A real 10,001 second call is misread; the platform
// does not tag the unit, so the cutoff stays.
const MillisecondThreshold = 10000

// ScorecardLabel is the display text for calls that only have scorecards.
const ScorecardLabel = "Has scorecard"

// Normalize resolves every summary field of rec.
//
//	assistantPhone    phoneNumber.number, variables.phoneNumber.number, variableValues.phoneNumber.number
//	customerPhone     customer.number
//	successEvaluation analysis.successEvaluation, analysis.success, successEvaluation
//	score             score, analysis.score, non-empty scorecards
//	costUsd           cost, costBreakdown.total, costBreakdown.cost, sum of costs[].cost
//	durationSeconds   duration (ms above threshold), endedAt - startedAt
func Normalize(rec types.CallRecord) types.CallSummary {
	return types.CallSummary{
		ID:                text(rec.ID),
		AssistantPhone:    AssistantPhone(rec),
		CustomerPhone:     CustomerPhone(rec),
		Type:              text(rec.Type),
		Status:            text(rec.Status),
		EndedReason:       text(rec.EndedReason),
		SuccessEvaluation: ClassifySuccess(successValue(rec)),
		Score:             ResolveScore(rec),
		StartedAt:         timestamp(rec.StartedAt),
		DurationSeconds:   DisplaySeconds(rec),
		CostUSD:           ResolveCost(rec),
	}
}

// AssistantPhone is the number the assistant called from or was reached on.
func AssistantPhone(rec types.CallRecord) types.Known[string] {
	candidates := []types.Value{phoneOf(rec.PhoneNumber)}
	if rec.Variables != nil {
		candidates = append(candidates, phoneOf(rec.Variables.PhoneNumber))
	}
	if rec.VariableValues != nil {
		candidates = append(candidates, phoneOf(rec.VariableValues.PhoneNumber))
	}
	return text(candidates...)
}

// CustomerPhone is the other party's number.
func CustomerPhone(rec types.CallRecord) types.Known[string] {
	return text(phoneOf(rec.Customer))
}

func phoneOf(ref *types.PhoneRef) types.Value {
	if ref == nil {
		return types.Value{}
	}
	return ref.Number
}

func successValue(rec types.CallRecord) types.Value {
	candidates := []types.Value{}
	if rec.Analysis != nil {
		candidates = append(candidates, rec.Analysis.SuccessEvaluation, rec.Analysis.Success)
	}
	candidates = append(candidates, rec.SuccessEvaluation)
	for _, v := range candidates {
		if v.Present() {
			return v
		}
	}
	return types.Value{}
}

var (
	truthy = map[string]bool{"true": true, "1": true, "yes": true}
	falsy  = map[string]bool{"false": true, "0": true, "no": true}
)

// ClassifySuccess maps a raw evaluation onto the tri-state. Matching is
// case-insensitive against {true,1,yes} and {false,0,no}; anything else
// that is present is kept as opaque text.
func ClassifySuccess(v types.Value) types.SuccessEvaluation {
	if !v.Present() {
		return types.SuccessEvaluation{Verdict: types.VerdictUnknown}
	}

	raw, ok := v.Text()
	if !ok {
		b, _ := v.MarshalJSON()
		raw = string(b)
	}

	switch s := strings.ToLower(strings.TrimSpace(raw)); {
	case truthy[s]:
		return types.SuccessEvaluation{Verdict: types.VerdictTrue}
	case falsy[s]:
		return types.SuccessEvaluation{Verdict: types.VerdictFalse}
	}
	return types.SuccessEvaluation{Verdict: types.VerdictOpaque, Raw: raw}
}

// ResolveScore returns the numeric score, the scorecard marker, or unknown.
func ResolveScore(rec types.CallRecord) types.Score {
	if f, ok := rec.Score.Number(); ok {
		return types.Score{Kind: types.ScoreNumeric, Value: f}
	}
	if rec.Analysis != nil {
		if f, ok := rec.Analysis.Score.Number(); ok {
			return types.Score{Kind: types.ScoreNumeric, Value: f}
		}
	}
	if rec.Scorecards.NonEmptyObject() {
		return types.Score{Kind: types.ScoreScorecard}
	}
	return types.Score{Kind: types.ScoreUnknown}
}

// ResolveCost returns the call cost in USD. Negative amounts are skipped.
// The costs[] sum is the last resort; an empty costs array resolves to zero
// and a sum that overflows float64 is unknown.
func ResolveCost(rec types.CallRecord) types.Known[float64] {
	candidates := []types.Value{rec.Cost}
	if rec.CostBreakdown != nil {
		candidates = append(candidates, rec.CostBreakdown.Total, rec.CostBreakdown.Cost)
	}
	for _, v := range candidates {
		if f, ok := v.Number(); ok && f >= 0 {
			return types.Some(f)
		}
	}

	if rec.Costs.Present {
		var sum float64
		for _, item := range rec.Costs.Items {
			if f, ok := item.Cost.Number(); ok {
				sum += f
			}
		}
		if sum >= 0 && !math.IsInf(sum, 0) {
			return types.Some(sum)
		}
	}
	return types.Unknown[float64]()
}

// DisplaySeconds resolves the duration the way the calls table shows it:
// the raw duration field first, the timestamp difference second.
func DisplaySeconds(rec types.CallRecord) types.Known[float64] {
	if d, ok := rawSeconds(rec.Duration); ok {
		return types.Some(d)
	}
	if d, ok := spanSeconds(rec.StartedAt, rec.EndedAt); ok {
		return types.Some(d)
	}
	return types.Unknown[float64]()
}

// ElapsedSeconds resolves the duration the way daily buckets sum it: the
// timestamp difference first, the raw duration field second.
func ElapsedSeconds(rec types.CallRecord) types.Known[float64] {
	if d, ok := spanSeconds(rec.StartedAt, rec.EndedAt); ok {
		return types.Some(d)
	}
	if d, ok := rawSeconds(rec.Duration); ok {
		return types.Some(d)
	}
	return types.Unknown[float64]()
}

// SecondsFromRaw applies the unit heuristic to a raw numeric duration.
func SecondsFromRaw(d float64) float64 {
	if d > MillisecondThreshold {
		return d / 1000
	}
	return d
}

func rawSeconds(v types.Value) (float64, bool) {
	d, ok := v.Number()
	if !ok || d < 0 {
		return 0, false
	}
	return SecondsFromRaw(d), true
}

func spanSeconds(start, end types.Value) (float64, bool) {
	s, ok := start.Time()
	if !ok {
		return 0, false
	}
	e, ok := end.Time()
	if !ok || e.Before(s) {
		return 0, false
	}
	return e.Sub(s).Seconds(), true
}

// CallDay is the UTC calendar day of the call: startedAt, else createdAt.
func CallDay(rec types.CallRecord) (string, bool) {
	for _, v := range []types.Value{rec.StartedAt, rec.CreatedAt} {
		if t, ok := v.Time(); ok {
			return t.UTC().Format(time.DateOnly), true
		}
	}
	return "", false
}

func timestamp(v types.Value) types.Known[time.Time] {
	if t, ok := v.Time(); ok {
		return types.Some(t)
	}
	return types.Unknown[time.Time]()
}

// text returns the first candidate with non-empty text.
func text(candidates ...types.Value) types.Known[string] {
	for _, v := range candidates {
		if s, ok := v.Text(); ok && s != "" {
			return types.Some(s)
		}
	}
	return types.Unknown[string]()
}
