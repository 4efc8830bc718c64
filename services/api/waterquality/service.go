package waterquality

import (
	"context"
	"sync"

	"github.com/apex/log"

	"github.com/pureflow/water-quality-viewer/services/api/hubeau"
)

// Fetcher is the slice of the Hub'Eau client the orchestrator consumes.
type Fetcher interface {
	Networks(ctx context.Context, communeCode string) []hubeau.Network
	Results(ctx context.Context, communeCode, networkCode string) (hubeau.FetchResult, error)
}

// Record is the consolidated quality record served to the UI: the latest
// sample for a commune plus bounded per-parameter history. Field names match
// the upstream payloads the frontend already understands.
type Record struct {
	CommuneCode        string                           `json:"code_commune"`
	SampleDate         string                           `json:"date_prelevement"`
	OverallConformity  string                           `json:"conclusion_conformite_prelevement"`
	BacterioConformity string                           `json:"conformite_limites_bacterio_prelevement"`
	ChemicalConformity string                           `json:"conformite_limites_p_c_prelevement"`
	Parameters         []hubeau.Parameter               `json:"resultats_analyse"`
	Network            *hubeau.Network                  `json:"network,omitempty"`
	History            map[string][]hubeau.HistoryPoint `json:"history,omitempty"`
	Truncated          bool                             `json:"truncated"`
}

// Service orchestrates the two-stage fetch chain. It holds no mutable state
// across calls, so concurrent fetches for the same commune are safe; each
// call re-executes the full chain (no coalescing, no caching).
type Service struct {
	client        Fetcher
	historyWindow int
}

// New builds a Service around a Hub'Eau client. historyWindow <= 0 selects
// the default window.
func New(client Fetcher, historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = hubeau.DefaultHistoryWindow
	}
	return &Service{client: client, historyWindow: historyWindow}
}

// Networks resolves the distribution networks serving a commune.
func (s *Service) Networks(ctx context.Context, communeCode string) []hubeau.Network {
	return s.client.Networks(ctx, communeCode)
}

// Fetch resolves a commune code into its consolidated latest-sample record.
// Network resolution failures degrade to the commune-scoped query; sample
// fetch failures propagate, since samples are the end goal. Outcomes:
// a record, hubeau.ErrNoData, or *hubeau.UpstreamError.
func (s *Service) Fetch(ctx context.Context, communeCode string) (*Record, error) {
	networks := s.client.Networks(ctx, communeCode)

	var network *hubeau.Network
	networkCode := ""
	if len(networks) > 0 {
		n := networks[0]
		network = &n
		networkCode = n.Code
		log.Debugf("commune %s: using network %s (%s)", communeCode, n.Name, n.Code)
	} else {
		log.Debugf("commune %s: no networks resolved, falling back to commune query", communeCode)
	}

	res, err := s.client.Results(ctx, communeCode, networkCode)
	if err != nil {
		return nil, err
	}

	agg, err := hubeau.AggregateLatest(res.Rows)
	if err != nil {
		return nil, err
	}

	return &Record{
		CommuneCode:        communeCode,
		SampleDate:         agg.SampleDate,
		OverallConformity:  agg.OverallConformity,
		BacterioConformity: agg.BacterioConformity,
		ChemicalConformity: agg.ChemicalConformity,
		Parameters:         agg.Parameters,
		Network:            network,
		History:            hubeau.BuildHistory(res.Rows, hubeau.TrackedParameters, s.historyWindow),
		Truncated:          res.Truncated,
	}, nil
}

// CityResult is one comparison slot. Record and Err are mutually exclusive;
// a nil Record with a nil Err never occurs.
type CityResult struct {
	CommuneCode string
	Record      *Record
	Err         error
}

// Compare runs one fetch pipeline per commune concurrently and joins once
// all complete. Each pipeline owns its own slot, so one city failing never
// aborts the others.
func (s *Service) Compare(ctx context.Context, communeCodes []string) []CityResult {
	results := make([]CityResult, len(communeCodes))

	var wg sync.WaitGroup
	for i, code := range communeCodes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			rec, err := s.Fetch(ctx, code)
			results[i] = CityResult{CommuneCode: code, Record: rec, Err: err}
		}(i, code)
	}
	wg.Wait()

	return results
}
