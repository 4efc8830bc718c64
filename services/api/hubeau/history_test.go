package hubeau

import (
	"fmt"
	"testing"
)

func TestBuildHistoryDeduplicatesSameDay(t *testing.T) {
	rows := []AnalysisRow{
		row("1340", "2023-01-01", 12),
		row("1340", "2023-01-01", 15), // same-day repeat sampling
		row("1340", "2022-12-01", 10),
	}

	history := BuildHistory(rows, []string{"1340"}, DefaultHistoryWindow)
	series := history["1340"]
	if len(series) != 2 {
		t.Fatalf("expected 2 points after same-day dedup, got %d", len(series))
	}
	if series[0].Value != 12 {
		t.Errorf("dedup must keep the first row encountered, got value %v", series[0].Value)
	}
}

func TestBuildHistoryWindowTruncation(t *testing.T) {
	var rows []AnalysisRow
	for i := 0; i < 30; i++ {
		rows = append(rows, row("1302", fmt.Sprintf("2023-01-%02d", i+1), 7.0))
	}

	cases := []struct {
		window int
		want   int
	}{
		{20, 20},
		{40, 30},
		{0, 20}, // zero falls back to the default window
	}
	for _, tc := range cases {
		history := BuildHistory(rows, []string{"1302"}, tc.window)
		if got := len(history["1302"]); got != tc.want {
			t.Errorf("window %d: series length = %d, want %d", tc.window, got, tc.want)
		}
	}
}

func TestBuildHistoryTruncatesAfterDedupNotBefore(t *testing.T) {
	// Three distinct dates, each duplicated: a window of 3 must still hold
	// all three dates because duplicates are collapsed first.
	rows := []AnalysisRow{
		row("1310", "2023-03-01", 0.3),
		row("1310", "2023-03-01", 0.4),
		row("1310", "2023-02-01", 0.2),
		row("1310", "2023-02-01", 0.1),
		row("1310", "2023-01-01", 0.5),
		row("1310", "2023-01-01", 0.6),
	}

	history := BuildHistory(rows, []string{"1310"}, 3)
	series := history["1310"]
	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}
	for i, want := range []string{"2023-03-01", "2023-02-01", "2023-01-01"} {
		if series[i].Date != want {
			t.Errorf("series[%d].Date = %q, want %q (upstream order preserved)", i, series[i].Date, want)
		}
	}
}

func TestBuildHistoryOmitsCodesWithoutRows(t *testing.T) {
	rows := []AnalysisRow{row("1340", "2023-01-01", 12)}

	history := BuildHistory(rows, TrackedParameters, DefaultHistoryWindow)
	if _, ok := history[ParamPH]; ok {
		t.Error("codes with zero rows must be absent, not empty")
	}
	if _, ok := history[ParamNitrates]; !ok {
		t.Error("expected nitrates series to be present")
	}
}

func TestBuildHistoryCarriesConclusion(t *testing.T) {
	rows := []AnalysisRow{{
		ParameterCode: "1340", SampleDate: "2023-01-01", NumericResult: 12,
		OverallConformity: "Eau conforme",
	}}

	history := BuildHistory(rows, []string{"1340"}, DefaultHistoryWindow)
	if got := history["1340"][0].Conclusion; got != "Eau conforme" {
		t.Errorf("Conclusion = %q, want upstream verdict", got)
	}
}
