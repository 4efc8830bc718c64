package hubeau

// Parameter codes surfaced as trend charts by the UI.
const (
	ParamNitrates     = "1340"
	ParamPH           = "1302"
	ParamFreeChlorine = "1310"
)

// TrackedParameters is the allow-list of codes history is built for.
var TrackedParameters = []string{ParamNitrates, ParamPH, ParamFreeChlorine}

// DefaultHistoryWindow bounds the length of each per-parameter series.
const DefaultHistoryWindow = 20

// HistoryPoint is one deduplicated reading for a tracked parameter.
type HistoryPoint struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	Conclusion string  `json:"conclusion,omitempty"`
}

// BuildHistory extracts a bounded time series per allow-listed parameter
// code. Rows are scanned in upstream order; same-day repeat samples collapse
// to the first row encountered per distinct date string, and each series is
// truncated to windowSize entries after deduplication. Upstream returns rows
// newest-first, so the window keeps the most recent readings; that ordering
// is assumed, not re-verified here. Codes with zero matching rows are left
// out of the map entirely.
func BuildHistory(rows []AnalysisRow, codes []string, windowSize int) map[string][]HistoryPoint {
	if windowSize <= 0 {
		windowSize = DefaultHistoryWindow
	}

	history := make(map[string][]HistoryPoint, len(codes))
	for _, code := range codes {
		seen := make(map[string]bool)
		var series []HistoryPoint
		for _, row := range rows {
			if row.ParameterCode != code || seen[row.SampleDate] {
				continue
			}
			seen[row.SampleDate] = true
			series = append(series, HistoryPoint{
				Date:       row.SampleDate,
				Value:      row.NumericResult,
				Conclusion: row.OverallConformity,
			})
			if len(series) == windowSize {
				break
			}
		}
		if len(series) > 0 {
			history[code] = series
		}
	}
	return history
}
