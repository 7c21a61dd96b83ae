// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/lib/pq"

	"github.com/tomtom215/shortlist/internal/models"
)

// Schema is the table PostgresStore reads. Preferences are absent (nil) when
// categories, custom_request and allergies are all NULL.
const Schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	user_id          TEXT PRIMARY KEY,
	categories       TEXT[],
	custom_request   TEXT,
	allergies        TEXT[],
	family_structure JSONB NOT NULL DEFAULT '{}'::jsonb,
	calculated_limit INTEGER,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const getProfileQuery = `
	SELECT user_id, categories, custom_request, allergies, family_structure, calculated_limit, updated_at
	FROM user_profiles
	WHERE user_id = $1
`

// PostgresStore reads profiles from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens and pings a database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping profile database: %w", err)
	}
	return db, nil
}

// NewPostgresStore creates a store over db. The caller owns db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the profile for userID or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var (
		id         string
		categories pq.StringArray
		custom     sql.NullString
		allergies  pq.StringArray
		family     []byte
		limit      sql.NullInt64
		updatedAt  time.Time
	)

	err := s.db.QueryRowContext(ctx, getProfileQuery, userID).
		Scan(&id, &categories, &custom, &allergies, &family, &limit, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %q: %w", userID, err)
	}

	p := &models.UserProfile{
		UserID:    id,
		UpdatedAt: updatedAt,
	}
	if categories != nil || custom.Valid || allergies != nil {
		p.Preferences = &models.Preferences{
			Categories:    []string(categories),
			CustomRequest: custom.String,
			Allergies:     []string(allergies),
		}
	}
	if len(family) > 0 {
		if err := json.Unmarshal(family, &p.FamilyStructure); err != nil {
			return nil, fmt.Errorf("decode family structure for %q: %w", userID, err)
		}
	}
	if limit.Valid {
		v := int(limit.Int64)
		p.CalculatedLimit = &v
	}
	return p, nil
}

var _ Store = (*PostgresStore)(nil)
