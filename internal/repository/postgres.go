package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"weather-chat/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the gazetteer table used by SearchPlaceByName.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS places (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		country VARCHAR(255) NOT NULL,
		population BIGINT NOT NULL DEFAULT 0,
		geom GEOGRAPHY(POINT, 4326) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS places_lower_name_idx ON places (lower(name) text_pattern_ops);
	CREATE INDEX IF NOT EXISTS places_geom_idx ON places USING GIST (geom);
`

// Repository is a PostGIS backed gazetteer.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SearchPlaceByName returns the best match for name: exact case-insensitive
// matches rank before prefix matches, then by population. nil means no match.
func (r *Repository) SearchPlaceByName(ctx context.Context, name string) (*models.Place, error) {
	sql := `
		SELECT
			name,
			country,
			ST_Y(geom::geometry) AS latitude,
			ST_X(geom::geometry) AS longitude
		FROM places
		WHERE lower(name) LIKE lower($2)
		ORDER BY (lower(name) = lower($1)) DESC, population DESC, id
		LIMIT 1
	`

	var place models.Place
	err := r.db.QueryRow(ctx, sql, name, likePrefix(name)).Scan(
		&place.Name,
		&place.Country,
		&place.Lat,
		&place.Lon,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute place search: %w", err)
	}

	return &place, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}

// SearchPlace lets the repository serve as a geocoding backend.
func (r *Repository) SearchPlace(ctx context.Context, name string) (*models.Place, error) {
	return r.SearchPlaceByName(ctx, name)
}
