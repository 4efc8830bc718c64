package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProfileNotFound signals an unknown preference profile id.
var ErrProfileNotFound = errors.New("db: profile not found")

// Store wraps database access for preference profiles. Each profile owns its
// alert thresholds, comparison selection and family-mode flag; there is no
// global preference state.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// AlertConfig is one per-parameter alert threshold.
type AlertConfig struct {
	ParameterCode string  `json:"parameter_code"`
	ParameterName string  `json:"parameter_name"`
	Threshold     float64 `json:"threshold"`
	Enabled       bool    `json:"enabled"`
}

// ComparisonCity is one entry of a profile's comparison selection.
type ComparisonCity struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MaxComparisonCities caps the comparison selection size.
const MaxComparisonCities = 3

// DefaultAlerts returns the alert configuration of a fresh profile.
func DefaultAlerts() []AlertConfig {
	return []AlertConfig{
		{ParameterCode: "1340", ParameterName: "Nitrates", Threshold: 50, Enabled: true},
		{ParameterCode: "1302", ParameterName: "pH", Threshold: 6.5, Enabled: false},
	}
}

// NormalizeCities deduplicates a comparison selection by commune code,
// keeping the first occurrence, and caps it at MaxComparisonCities.
func NormalizeCities(cities []ComparisonCity) []ComparisonCity {
	seen := make(map[string]bool, len(cities))
	out := make([]ComparisonCity, 0, MaxComparisonCities)
	for _, city := range cities {
		if city.Code == "" || seen[city.Code] {
			continue
		}
		seen[city.Code] = true
		out = append(out, city)
		if len(out) == MaxComparisonCities {
			break
		}
	}
	return out
}

const createProfileSQL = `
    INSERT INTO pureflow.profiles (id, family_mode, created_at, updated_at)
    VALUES ($1, FALSE, NOW(), NOW())
`

// CreateProfile allocates a new preference profile and returns its id.
func (s *Store) CreateProfile(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, createProfileSQL, id); err != nil {
		return "", err
	}
	return id, nil
}

const familyModeSQL = `
    SELECT family_mode FROM pureflow.profiles WHERE id = $1
`

// FamilyMode loads a profile's family-mode flag.
func (s *Store) FamilyMode(ctx context.Context, profileID string) (bool, error) {
	var enabled bool
	err := s.pool.QueryRow(ctx, familyModeSQL, profileID).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrProfileNotFound
	}
	return enabled, err
}

const saveFamilyModeSQL = `
    UPDATE pureflow.profiles SET family_mode = $2, updated_at = NOW() WHERE id = $1
`

// SaveFamilyMode persists a profile's family-mode flag.
func (s *Store) SaveFamilyMode(ctx context.Context, profileID string, enabled bool) error {
	tag, err := s.pool.Exec(ctx, saveFamilyModeSQL, profileID, enabled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
