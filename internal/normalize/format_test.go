package normalize

import (
	"testing"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/types"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   types.Known[float64]
		want string
	}{
		{types.Some(125.0), "2:05"},
		{types.Some(0.0), "0:00"},
		{types.Some(59.6), "1:00"},
		{types.Some(3600.0), "60:00"},
		{types.Some(15.0), "0:15"},
		{types.Unknown[float64](), "-"},
		{types.Some(1e300), "-"},
		{types.Some(1e18), "16666666666666666:40"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   types.Known[float64]
		want string
	}{
		{types.Some(12.3456), "$12.3456"},
		{types.Some(0.1), "$0.1000"},
		{types.Some(0.0), "$0.0000"},
		{types.Unknown[float64](), "-"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.in); got != tt.want {
			t.Errorf("FormatCost(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := types.Some(time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC))

	if got := FormatTimestamp(ts, nil); got != "Mar 1, 2024, 11:59:59 PM" {
		t.Errorf("unexpected utc rendering %q", got)
	}

	tokyo := time.FixedZone("JST", 9*3600)
	if got := FormatTimestamp(ts, tokyo); got != "Mar 2, 2024, 8:59:59 AM" {
		t.Errorf("unexpected zoned rendering %q", got)
	}

	if got := FormatTimestamp(types.Unknown[time.Time](), nil); got != Dash {
		t.Errorf("expected dash, got %q", got)
	}
}

func TestFormatSuccessAndScore(t *testing.T) {
	if got := FormatSuccess(types.SuccessEvaluation{Verdict: types.VerdictOpaque, Raw: "PASS"}); got != "PASS" {
		t.Errorf("expected raw text, got %q", got)
	}
	if got := FormatSuccess(types.SuccessEvaluation{Verdict: types.VerdictFalse}); got != "false" {
		t.Errorf("expected false, got %q", got)
	}
	if got := FormatScore(types.Score{Kind: types.ScoreScorecard}); got != ScorecardLabel {
		t.Errorf("expected scorecard label, got %q", got)
	}
	if got := FormatScore(types.Score{Kind: types.ScoreNumeric, Value: 4.5}); got != "4.5" {
		t.Errorf("expected 4.5, got %q", got)
	}
}

func TestShortID(t *testing.T) {
	tests := map[string]string{
		"short":                                "short",
		"abcdefghijk":                          "abcdefghijk",
		"abcdefghijkl":                         "abcdefgh…ijkl",
		"0f8fad5b-d9cb-469f-a165-70867728950e": "0f8fad5b…950e",
	}
	for in, want := range tests {
		if got := ShortID(in); got != want {
			t.Errorf("ShortID(%q) = %q, want %q", in, got, want)
		}
	}
}
