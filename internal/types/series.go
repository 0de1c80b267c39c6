package types

// TimeSeries is the chart data for a set of calls: four series aligned on
// ascending YYYY-MM-DD labels.
type TimeSeries struct {
	Labels  []string  `json:"labels"`
	Minutes []float64 `json:"minutes"`
	Calls   []int     `json:"calls"`
	Spent   []float64 `json:"spent"`
	AvgCost []float64 `json:"avgCost"`
}

// EmptySeries returns a series with non-nil empty slices so it encodes as [].
func EmptySeries() TimeSeries {
	return TimeSeries{
		Labels:  []string{},
		Minutes: []float64{},
		Calls:   []int{},
		Spent:   []float64{},
		AvgCost: []float64{},
	}
}
