package postgres

import (
	"context"
	"fmt"

	"github.com/ibarrondo/aeronav/internal/core/domain"
)

// NavLogRepo implements ports.NavLogRepository.
type NavLogRepo struct {
	db *DB
}

// NewNavLogRepo creates a new NavLogRepo.
func NewNavLogRepo(db *DB) *NavLogRepo {
	return &NavLogRepo{db: db}
}

// Insert stores a navigation log and its legs in one transaction. The
// generated UUID is written back to nl.ID.
func (r *NavLogRepo) Insert(ctx context.Context, nl *domain.NavLog) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO navlogs (name, total_m, total_nm)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, nl.Name, nl.TotalMeters, nl.TotalNM).Scan(&nl.ID, &nl.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert navlog: %w", err)
	}

	for _, leg := range nl.Legs {
		_, err = tx.Exec(ctx, `
			INSERT INTO navlog_legs (navlog_id, seq, from_ident, to_ident,
			                         from_location, to_location,
			                         distance_m, distance_nm, initial_bearing)
			VALUES ($1, $2, $3, $4,
			        ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
			        ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography,
			        $9, $10, $11)
		`, nl.ID, leg.Seq, leg.FromIdent, leg.ToIdent,
			leg.From.Lon, leg.From.Lat, leg.To.Lon, leg.To.Lat,
			leg.DistanceMeters, leg.DistanceNM, leg.InitialBearing)
		if err != nil {
			return fmt.Errorf("insert leg %d: %w", leg.Seq, err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID returns a navigation log with its legs ordered by sequence.
func (r *NavLogRepo) GetByID(ctx context.Context, id string) (*domain.NavLog, error) {
	var nl domain.NavLog
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, total_m, total_nm, created_at
		FROM navlogs WHERE id = $1
	`, id).Scan(&nl.ID, &nl.Name, &nl.TotalMeters, &nl.TotalNM, &nl.CreatedAt)
	if err != nil {
		return nil, err
	}

	legs, err := r.legsFor(ctx, nl.ID)
	if err != nil {
		return nil, err
	}
	nl.Legs = legs
	return &nl, nil
}

// ListRecent returns the most recently created navigation logs, legs included.
func (r *NavLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.NavLog, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, total_m, total_nm, created_at
		FROM navlogs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.NavLog
	for rows.Next() {
		var nl domain.NavLog
		if err := rows.Scan(&nl.ID, &nl.Name, &nl.TotalMeters, &nl.TotalNM, &nl.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, nl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		legs, err := r.legsFor(ctx, logs[i].ID)
		if err != nil {
			return nil, err
		}
		logs[i].Legs = legs
	}
	return logs, nil
}

// Delete removes a navigation log; legs cascade.
func (r *NavLogRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM navlogs WHERE id = $1`, id)
	return err
}

func (r *NavLogRepo) legsFor(ctx context.Context, navlogID string) ([]domain.NavLogLeg, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT seq, from_ident, to_ident,
		       ST_Y(from_location::geometry), ST_X(from_location::geometry),
		       ST_Y(to_location::geometry), ST_X(to_location::geometry),
		       distance_m, distance_nm, initial_bearing
		FROM navlog_legs
		WHERE navlog_id = $1
		ORDER BY seq
	`, navlogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var legs []domain.NavLogLeg
	for rows.Next() {
		var leg domain.NavLogLeg
		if err := rows.Scan(
			&leg.Seq, &leg.FromIdent, &leg.ToIdent,
			&leg.From.Lat, &leg.From.Lon,
			&leg.To.Lat, &leg.To.Lon,
			&leg.DistanceMeters, &leg.DistanceNM, &leg.InitialBearing,
		); err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}
