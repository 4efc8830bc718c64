package hubeau

// Network identifies one physical water-distribution network (UDI) serving a
// commune, as returned by the communes_udi endpoint.
type Network struct {
	Code        string `json:"code_reseau"`
	Name        string `json:"nom_reseau"`
	Distributor string `json:"nom_distributeur,omitempty"`
}

// AnalysisRow is one raw measurement record from the resultats_dis endpoint.
// One physical sample yields many rows sharing the same date_prelevement.
type AnalysisRow struct {
	ParameterCode      string  `json:"code_parametre"`
	ParameterLabel     string  `json:"libelle_parametre"`
	NumericResult      float64 `json:"resultat_numerique"`
	UnitLabel          string  `json:"libelle_unite"`
	SampleDate         string  `json:"date_prelevement"`
	OverallConformity  string  `json:"conclusion_conformite_prelevement,omitempty"`
	BacterioConformity string  `json:"conformite_limites_bacterio_prelevement,omitempty"`
	ChemicalConformity string  `json:"conformite_limites_p_c_prelevement,omitempty"`
}

// networksResponse models the communes_udi payload envelope.
type networksResponse struct {
	Count int       `json:"count"`
	Data  []Network `json:"data"`
}

// resultsResponse models the resultats_dis payload envelope.
type resultsResponse struct {
	Count int           `json:"count"`
	Data  []AnalysisRow `json:"data"`
}

// FetchResult carries one page of analysis rows. Truncated is set when the
// page came back full, meaning upstream likely holds more rows than the
// single page this client requests.
type FetchResult struct {
	Rows      []AnalysisRow
	Truncated bool
}
