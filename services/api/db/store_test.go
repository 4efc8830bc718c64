package db

import (
	"reflect"
	"testing"
)

func TestNormalizeCitiesDeduplicatesAndCaps(t *testing.T) {
	cases := []struct {
		name  string
		input []ComparisonCity
		want  []ComparisonCity
	}{
		{
			name: "duplicates keep first occurrence",
			input: []ComparisonCity{
				{Code: "75056", Name: "Paris"},
				{Code: "75056", Name: "Paris bis"},
				{Code: "69123", Name: "Lyon"},
			},
			want: []ComparisonCity{
				{Code: "75056", Name: "Paris"},
				{Code: "69123", Name: "Lyon"},
			},
		},
		{
			name: "capped at three cities",
			input: []ComparisonCity{
				{Code: "75056", Name: "Paris"},
				{Code: "69123", Name: "Lyon"},
				{Code: "13055", Name: "Marseille"},
				{Code: "31555", Name: "Toulouse"},
			},
			want: []ComparisonCity{
				{Code: "75056", Name: "Paris"},
				{Code: "69123", Name: "Lyon"},
				{Code: "13055", Name: "Marseille"},
			},
		},
		{
			name: "empty codes dropped",
			input: []ComparisonCity{
				{Code: "", Name: "nameless"},
				{Code: "75056", Name: "Paris"},
			},
			want: []ComparisonCity{{Code: "75056", Name: "Paris"}},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []ComparisonCity{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeCities(tc.input); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeCities() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDefaultAlerts(t *testing.T) {
	alerts := DefaultAlerts()
	if len(alerts) != 2 {
		t.Fatalf("expected 2 default alerts, got %d", len(alerts))
	}
	if alerts[0].ParameterCode != "1340" || !alerts[0].Enabled || alerts[0].Threshold != 50 {
		t.Errorf("unexpected nitrates default: %+v", alerts[0])
	}
	if alerts[1].ParameterCode != "1302" || alerts[1].Enabled {
		t.Errorf("pH default must start disabled: %+v", alerts[1])
	}
}
