package db

import "context"

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS pureflow`,
	`CREATE TABLE IF NOT EXISTS pureflow.profiles (
		id UUID PRIMARY KEY,
		family_mode BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS pureflow.alert_settings (
		profile_id UUID NOT NULL REFERENCES pureflow.profiles(id) ON DELETE CASCADE,
		parameter_code TEXT NOT NULL,
		parameter_name TEXT NOT NULL,
		threshold DOUBLE PRECISION NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (profile_id, parameter_code)
	)`,
	`CREATE TABLE IF NOT EXISTS pureflow.comparison_cities (
		profile_id UUID NOT NULL REFERENCES pureflow.profiles(id) ON DELETE CASCADE,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (profile_id, code)
	)`,
}

// InitSchema creates the preference tables if they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
