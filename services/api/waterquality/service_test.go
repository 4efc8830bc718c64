package waterquality

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pureflow/water-quality-viewer/services/api/hubeau"
)

// stubFetcher records upstream calls and serves canned per-commune data.
type stubFetcher struct {
	mu           sync.Mutex
	networks     map[string][]hubeau.Network
	results      map[string]hubeau.FetchResult
	resultErrs   map[string]error
	gotNetworkID []string
}

func (f *stubFetcher) Networks(ctx context.Context, communeCode string) []hubeau.Network {
	return f.networks[communeCode]
}

func (f *stubFetcher) Results(ctx context.Context, communeCode, networkCode string) (hubeau.FetchResult, error) {
	f.mu.Lock()
	f.gotNetworkID = append(f.gotNetworkID, networkCode)
	f.mu.Unlock()
	if err := f.resultErrs[communeCode]; err != nil {
		return hubeau.FetchResult{}, err
	}
	return f.results[communeCode], nil
}

func sampleRows() []hubeau.AnalysisRow {
	rows := []hubeau.AnalysisRow{
		{ParameterCode: "1340", ParameterLabel: "Nitrates", NumericResult: 18, UnitLabel: "mg/L", SampleDate: "2023-03-15", OverallConformity: "Eau conforme"},
		{ParameterCode: "1302", ParameterLabel: "pH", NumericResult: 7.4, SampleDate: "2023-03-15"},
		{ParameterCode: "1310", ParameterLabel: "Chlore libre", NumericResult: 0.2, SampleDate: "2023-03-15"},
		{ParameterCode: "1367", ParameterLabel: "Calcium", NumericResult: 91, SampleDate: "2023-03-15"},
		{ParameterCode: "1337", ParameterLabel: "Chlorures", NumericResult: 22, SampleDate: "2023-03-15"},
		{ParameterCode: "1340", ParameterLabel: "Nitrates", NumericResult: 17, SampleDate: "2023-02-01"},
		{ParameterCode: "1302", ParameterLabel: "pH", NumericResult: 7.2, SampleDate: "2023-02-01"},
		{ParameterCode: "1310", ParameterLabel: "Chlore libre", NumericResult: 0.3, SampleDate: "2023-02-01"},
	}
	return rows
}

func TestFetchPrefersResolvedNetwork(t *testing.T) {
	f := &stubFetcher{
		networks: map[string][]hubeau.Network{
			"75056": {{Code: "N1", Name: "Réseau de Paris"}, {Code: "N2", Name: "Secondaire"}},
		},
		results: map[string]hubeau.FetchResult{"75056": {Rows: sampleRows()}},
	}
	svc := New(f, 0)

	rec, err := svc.Fetch(context.Background(), "75056")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.gotNetworkID) != 1 || f.gotNetworkID[0] != "N1" {
		t.Errorf("expected one network-scoped query for N1, got %v", f.gotNetworkID)
	}
	if rec.Network == nil || rec.Network.Code != "N1" {
		t.Errorf("record must carry the first resolved network, got %+v", rec.Network)
	}
	if len(rec.Parameters) != 5 {
		t.Errorf("expected the 5 latest-date rows as parameters, got %d", len(rec.Parameters))
	}
	if rec.CommuneCode != "75056" || rec.SampleDate != "2023-03-15" {
		t.Errorf("unexpected record identity: %+v", rec)
	}
	if len(rec.History[hubeau.ParamNitrates]) != 2 {
		t.Errorf("expected 2 nitrate history points, got %d", len(rec.History[hubeau.ParamNitrates]))
	}
}

func TestFetchFallsBackToCommuneQuery(t *testing.T) {
	f := &stubFetcher{
		results: map[string]hubeau.FetchResult{"31555": {Rows: sampleRows()}},
	}
	svc := New(f, 0)

	rec, err := svc.Fetch(context.Background(), "31555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.gotNetworkID) != 1 || f.gotNetworkID[0] != "" {
		t.Errorf("expected a commune-scoped query (empty network id), got %v", f.gotNetworkID)
	}
	if rec.Network != nil {
		t.Errorf("no network resolved, record.Network must be absent, got %+v", rec.Network)
	}
}

func TestFetchNoData(t *testing.T) {
	f := &stubFetcher{results: map[string]hubeau.FetchResult{}}
	svc := New(f, 0)

	rec, err := svc.Fetch(context.Background(), "00000")
	if !errors.Is(err, hubeau.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if rec != nil {
		t.Errorf("no record expected on no data, got %+v", rec)
	}
}

func TestFetchPropagatesUpstreamError(t *testing.T) {
	wantErr := &hubeau.UpstreamError{Endpoint: "resultats_dis", Status: 503}
	f := &stubFetcher{resultErrs: map[string]error{"75056": wantErr}}
	svc := New(f, 0)

	_, err := svc.Fetch(context.Background(), "75056")
	var ue *hubeau.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
}

func TestFetchSurfacesTruncation(t *testing.T) {
	f := &stubFetcher{
		results: map[string]hubeau.FetchResult{"75056": {Rows: sampleRows(), Truncated: true}},
	}
	svc := New(f, 0)

	rec, err := svc.Fetch(context.Background(), "75056")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Truncated {
		t.Error("truncated fetch must be flagged on the record")
	}
}

func TestCompareIsolatesFailures(t *testing.T) {
	f := &stubFetcher{
		networks: map[string][]hubeau.Network{"75056": {{Code: "N1", Name: "Paris"}}},
		results: map[string]hubeau.FetchResult{
			"75056": {Rows: sampleRows()},
			"13055": {Rows: sampleRows()},
		},
		resultErrs: map[string]error{
			"69123": &hubeau.UpstreamError{Endpoint: "resultats_dis", Status: 502},
		},
	}
	svc := New(f, 0)

	results := svc.Compare(context.Background(), []string{"75056", "69123", "13055"})
	if len(results) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(results))
	}
	for i, code := range []string{"75056", "69123", "13055"} {
		if results[i].CommuneCode != code {
			t.Errorf("slot %d belongs to %q, want %q", i, results[i].CommuneCode, code)
		}
	}
	if results[0].Err != nil || results[0].Record == nil {
		t.Errorf("slot 0 should have succeeded: %+v", results[0])
	}
	if results[1].Err == nil {
		t.Error("slot 1 should carry its own failure")
	}
	if results[2].Err != nil || results[2].Record == nil {
		t.Errorf("a failing city must not abort the others: %+v", results[2])
	}
}
