package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const profileExistsSQL = `
    SELECT 1 FROM pureflow.profiles WHERE id = $1
`

func (s *Store) profileExists(ctx context.Context, profileID string) error {
	var one int
	err := s.pool.QueryRow(ctx, profileExistsSQL, profileID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	return err
}

const alertsSQL = `
    SELECT parameter_code, parameter_name, threshold, enabled
    FROM pureflow.alert_settings
    WHERE profile_id = $1
    ORDER BY position
`

// Alerts loads a profile's alert configuration. A profile that has never
// saved alerts gets the defaults.
func (s *Store) Alerts(ctx context.Context, profileID string) ([]AlertConfig, error) {
	if err := s.profileExists(ctx, profileID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, alertsSQL, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]AlertConfig, 0)
	for rows.Next() {
		var a AlertConfig
		if err := rows.Scan(&a.ParameterCode, &a.ParameterName, &a.Threshold, &a.Enabled); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(alerts) == 0 {
		return DefaultAlerts(), nil
	}
	return alerts, nil
}

const deleteAlertsSQL = `DELETE FROM pureflow.alert_settings WHERE profile_id = $1`

const insertAlertSQL = `
    INSERT INTO pureflow.alert_settings (profile_id, parameter_code, parameter_name, threshold, enabled, position)
    VALUES ($1, $2, $3, $4, $5, $6)
`

// SaveAlerts replaces a profile's alert configuration wholesale.
func (s *Store) SaveAlerts(ctx context.Context, profileID string, alerts []AlertConfig) error {
	if err := s.profileExists(ctx, profileID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(deleteAlertsSQL, profileID)
	for i, a := range alerts {
		batch.Queue(insertAlertSQL, profileID, a.ParameterCode, a.ParameterName, a.Threshold, a.Enabled, i)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < len(alerts)+1; i++ {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}
	return nil
}

const comparisonSQL = `
    SELECT code, name
    FROM pureflow.comparison_cities
    WHERE profile_id = $1
    ORDER BY position
`

// Comparison loads a profile's comparison selection.
func (s *Store) Comparison(ctx context.Context, profileID string) ([]ComparisonCity, error) {
	if err := s.profileExists(ctx, profileID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, comparisonSQL, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]ComparisonCity, 0, MaxComparisonCities)
	for rows.Next() {
		var c ComparisonCity
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

const deleteComparisonSQL = `DELETE FROM pureflow.comparison_cities WHERE profile_id = $1`

const insertComparisonSQL = `
    INSERT INTO pureflow.comparison_cities (profile_id, code, name, position)
    VALUES ($1, $2, $3, $4)
`

// SaveComparison replaces a profile's comparison selection wholesale. The
// selection is normalized first: duplicates dropped, capped at
// MaxComparisonCities.
func (s *Store) SaveComparison(ctx context.Context, profileID string, cities []ComparisonCity) ([]ComparisonCity, error) {
	if err := s.profileExists(ctx, profileID); err != nil {
		return nil, err
	}

	cities = NormalizeCities(cities)

	batch := &pgx.Batch{}
	batch.Queue(deleteComparisonSQL, profileID)
	for i, c := range cities {
		batch.Queue(insertComparisonSQL, profileID, c.Code, c.Name, i)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < len(cities)+1; i++ {
		if _, err := res.Exec(); err != nil {
			return nil, err
		}
	}
	return cities, nil
}
