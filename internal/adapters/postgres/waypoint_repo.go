package postgres

import (
	"context"
	"fmt"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// WaypointRepo implements ports.WaypointRepository with pgx.
type WaypointRepo struct {
	db *DB
}

// NewWaypointRepo creates a new WaypointRepo.
func NewWaypointRepo(db *DB) *WaypointRepo {
	return &WaypointRepo{db: db}
}

// Upsert inserts or updates a single waypoint, keyed by ident.
func (r *WaypointRepo) Upsert(ctx context.Context, w *domain.Waypoint) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO waypoints (ident, name, kind, country, location, elevation_ft)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7)
		ON CONFLICT (ident) DO UPDATE
		SET name = EXCLUDED.name, kind = EXCLUDED.kind,
		    country = EXCLUDED.country, location = EXCLUDED.location,
		    elevation_ft = EXCLUDED.elevation_ft
	`, w.Ident, w.Name, w.Kind, w.Country, w.Location.Lon, w.Location.Lat, w.ElevationFt)
	return err
}

// UpsertBatch inserts many waypoints using pgx.Batch.
func (r *WaypointRepo) UpsertBatch(ctx context.Context, wps []domain.Waypoint) error {
	batch := &pgx.Batch{}
	for _, w := range wps {
		batch.Queue(`
			INSERT INTO waypoints (ident, name, kind, country, location, elevation_ft)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7)
			ON CONFLICT (ident) DO UPDATE
			SET name = EXCLUDED.name, kind = EXCLUDED.kind,
			    country = EXCLUDED.country, location = EXCLUDED.location,
			    elevation_ft = EXCLUDED.elevation_ft
		`, w.Ident, w.Name, w.Kind, w.Country, w.Location.Lon, w.Location.Lat, w.ElevationFt)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range wps {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByIdent returns a waypoint by its unique ident.
func (r *WaypointRepo) GetByIdent(ctx context.Context, ident string) (*domain.Waypoint, error) {
	var w domain.Waypoint
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, ident, name, kind, COALESCE(country, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       elevation_ft, created_at
		FROM waypoints WHERE ident = $1
	`, ident).Scan(
		&w.ID, &w.Ident, &w.Name, &w.Kind, &w.Country,
		&w.Location.Lat, &w.Location.Lon,
		&w.ElevationFt, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByIdents returns multiple waypoints by ident, in arbitrary order.
func (r *WaypointRepo) GetByIdents(ctx context.Context, idents []string) ([]domain.Waypoint, error) {
	if len(idents) == 0 {
		return nil, nil
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, ident, name, kind, COALESCE(country, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       elevation_ft, created_at
		FROM waypoints WHERE ident = ANY($1)
	`, idents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWaypoints(rows)
}

// FindNearby returns waypoints within radiusMeters using PostGIS ST_DWithin.
func (r *WaypointRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Waypoint, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, ident, name, kind, COALESCE(country, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       elevation_ft,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance,
		       created_at
		FROM waypoints
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wps []domain.Waypoint
	for rows.Next() {
		var w domain.Waypoint
		var dist float64
		if err := rows.Scan(
			&w.ID, &w.Ident, &w.Name, &w.Kind, &w.Country,
			&w.Location.Lat, &w.Location.Lon,
			&w.ElevationFt, &dist, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		w.Distance = &dist
		wps = append(wps, w)
	}
	return wps, rows.Err()
}

// Search performs fuzzy search on waypoint idents and names.
func (r *WaypointRepo) Search(ctx context.Context, query string, limit int) ([]domain.Waypoint, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, ident, name, kind, COALESCE(country, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       elevation_ft, created_at
		FROM waypoints
		WHERE ident ILIKE $1 || '%'
		   OR name %> $1
		ORDER BY similarity(name, $1) DESC, ident
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWaypoints(rows)
}

func scanWaypoints(rows pgx.Rows) ([]domain.Waypoint, error) {
	var wps []domain.Waypoint
	for rows.Next() {
		var w domain.Waypoint
		if err := rows.Scan(
			&w.ID, &w.Ident, &w.Name, &w.Kind, &w.Country,
			&w.Location.Lat, &w.Location.Lon,
			&w.ElevationFt, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		wps = append(wps, w)
	}
	return wps, rows.Err()
}
