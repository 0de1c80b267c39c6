package normalize

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/types"
)

// Dash is what every unknown field renders as.
const Dash = "-"

// TimestampLayout is the display layout for call start times.
const TimestampLayout = "Jan 2, 2006, 3:04:05 PM"

// FormatDuration renders whole seconds as m:ss, e.g. 125 -> "2:05".
// Durations too large for an int64 render as a dash.
func FormatDuration(d types.Known[float64]) string {
	sec, ok := d.Get()
	if !ok || !(sec < math.MaxInt64) {
		return Dash
	}
	total := int64(math.Round(sec))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatCost renders USD to four places, e.g. "$12.3456".
func FormatCost(c types.Known[float64]) string {
	usd, ok := c.Get()
	if !ok {
		return Dash
	}
	return "$" + strconv.FormatFloat(usd, 'f', 4, 64)
}

// FormatTimestamp renders t in loc, UTC when loc is nil.
func FormatTimestamp(t types.Known[time.Time], loc *time.Location) string {
	ts, ok := t.Get()
	if !ok {
		return Dash
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(TimestampLayout)
}

// FormatSuccess renders the tri-state; opaque values show their raw text.
func FormatSuccess(s types.SuccessEvaluation) string {
	switch s.Verdict {
	case types.VerdictTrue:
		return "true"
	case types.VerdictFalse:
		return "false"
	case types.VerdictOpaque:
		return s.Raw
	}
	return Dash
}

// FormatScore renders a numeric score, the scorecard label, or a dash.
func FormatScore(s types.Score) string {
	switch s.Kind {
	case types.ScoreNumeric:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	case types.ScoreScorecard:
		return ScorecardLabel
	}
	return Dash
}

// ShortID abbreviates ids of 12+ characters to first8…last4.
func ShortID(id string) string {
	if len(id) < 12 {
		return id
	}
	return id[:8] + "…" + id[len(id)-4:]
}

func orDash(k types.Known[string]) string {
	if s, ok := k.Get(); ok {
		return s
	}
	return Dash
}

// Display renders every field of a summary.
func Display(s types.CallSummary, loc *time.Location) types.CallDisplay {
	shortID := Dash
	if id, ok := s.ID.Get(); ok {
		shortID = ShortID(id)
	}
	return types.CallDisplay{
		ShortID:           shortID,
		AssistantPhone:    orDash(s.AssistantPhone),
		CustomerPhone:     orDash(s.CustomerPhone),
		Type:              orDash(s.Type),
		Status:            orDash(s.Status),
		EndedReason:       orDash(s.EndedReason),
		SuccessEvaluation: FormatSuccess(s.SuccessEvaluation),
		Score:             FormatScore(s.Score),
		StartedAt:         FormatTimestamp(s.StartedAt, loc),
		Duration:          FormatDuration(s.DurationSeconds),
		Cost:              FormatCost(s.CostUSD),
	}
}

// Row normalizes rec and renders it as a table row.
func Row(rec types.CallRecord, loc *time.Location) types.CallRow {
	summary := Normalize(rec)
	assistantID, _ := rec.AssistantID.Text()
	return types.CallRow{
		Summary:     summary,
		Display:     Display(summary, loc),
		AssistantID: assistantID,
	}
}
