package hubeau

import (
	"errors"
	"sort"
	"time"
)

// ConformityDefault is substituted when upstream omits a conformity verdict.
// It mirrors the upstream display convention; an absent verdict is not a
// verified compliance claim.
const ConformityDefault = "Conforme"

// ErrNoData signals that upstream legitimately has zero matching rows.
var ErrNoData = errors.New("hubeau: no analysis rows")

// Parameter is one reading from the latest sample.
type Parameter struct {
	Code  string  `json:"code_parametre"`
	Label string  `json:"libelle_parametre"`
	Value float64 `json:"resultat_numerique"`
	Unit  string  `json:"libelle_unite"`
}

// Consolidated is the latest-sample reduction of a result set.
type Consolidated struct {
	SampleDate         string
	OverallConformity  string
	BacterioConformity string
	ChemicalConformity string
	Parameters         []Parameter
}

var sampleDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// sampleTime parses an upstream sample date. Upstream is not consistent
// about ISO normalization across API versions, so a few layouts are tried.
func sampleTime(raw string) (time.Time, bool) {
	for _, layout := range sampleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sampleDateBefore orders two raw sample dates, most recent first. Dates
// that cannot be parsed (or parse to the same instant) fall back to raw
// string comparison so the order is total and permutation-independent.
func sampleDateBefore(a, b string) bool {
	ta, _ := sampleTime(a)
	tb, _ := sampleTime(b)
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a > b
}

// AggregateLatest reduces an unordered result set to the most recent sample:
// the rows sharing the latest sample date, in their original relative order,
// plus the conformity verdicts of that sample. Returns ErrNoData on empty
// input; a Consolidated never has empty Parameters.
func AggregateLatest(rows []AnalysisRow) (Consolidated, error) {
	if len(rows) == 0 {
		return Consolidated{}, ErrNoData
	}

	sorted := make([]AnalysisRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sampleDateBefore(sorted[i].SampleDate, sorted[j].SampleDate)
	})

	// Grouping is by the literal date string at whatever granularity
	// upstream provides, not by parsed instant.
	latestDate := sorted[0].SampleDate

	parameters := make([]Parameter, 0, 8)
	var first *AnalysisRow
	for i := range rows {
		if rows[i].SampleDate != latestDate {
			continue
		}
		if first == nil {
			first = &rows[i]
		}
		parameters = append(parameters, Parameter{
			Code:  rows[i].ParameterCode,
			Label: rows[i].ParameterLabel,
			Value: rows[i].NumericResult,
			Unit:  rows[i].UnitLabel,
		})
	}

	return Consolidated{
		SampleDate:         latestDate,
		OverallConformity:  orDefault(first.OverallConformity),
		BacterioConformity: orDefault(first.BacterioConformity),
		ChemicalConformity: orDefault(first.ChemicalConformity),
		Parameters:         parameters,
	}, nil
}

func orDefault(conformity string) string {
	if conformity == "" {
		return ConformityDefault
	}
	return conformity
}
