package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/ports"
)

// WaypointService handles waypoint lookup and search.
type WaypointService struct {
	waypoints ports.WaypointRepository
	cache     ports.CacheService
}

// NewWaypointService creates a new WaypointService.
func NewWaypointService(waypoints ports.WaypointRepository, cache ports.CacheService) *WaypointService {
	return &WaypointService{waypoints: waypoints, cache: cache}
}

// Upsert creates or updates a waypoint and invalidates its cached entry.
func (s *WaypointService) Upsert(ctx context.Context, wp *domain.Waypoint) error {
	wp.Ident = strings.ToUpper(strings.TrimSpace(wp.Ident))
	if wp.Ident == "" {
		return fmt.Errorf("waypoint ident must not be empty")
	}
	if !wp.Location.Valid() {
		return fmt.Errorf("waypoint location out of range: (%g,%g)", wp.Location.Lat, wp.Location.Lon)
	}

	if err := s.waypoints.Upsert(ctx, wp); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "wp:ident:"+wp.Ident)
	}
	return nil
}

// UpsertBatch bulk-loads waypoints, for dataset ingestion.
func (s *WaypointService) UpsertBatch(ctx context.Context, wps []domain.Waypoint) error {
	for i := range wps {
		wps[i].Ident = strings.ToUpper(strings.TrimSpace(wps[i].Ident))
		if wps[i].Ident == "" || !wps[i].Location.Valid() {
			return fmt.Errorf("waypoint %d: invalid ident or location", i)
		}
	}
	return s.waypoints.UpsertBatch(ctx, wps)
}

// FindNearby returns waypoints within radiusMeters of the given point.
func (s *WaypointService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Waypoint, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("wp:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var wps []domain.Waypoint
			if err := json.Unmarshal(data, &wps); err == nil {
				return wps, nil
			}
		}
	}

	wps, err := s.waypoints.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Waypoint data changes only on re-ingest; cache for 10 minutes.
	if s.cache != nil {
		if data, err := json.Marshal(wps); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return wps, nil
}

// Search performs fuzzy search on waypoint idents and names.
func (s *WaypointService) Search(ctx context.Context, query string, limit int) ([]domain.Waypoint, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("wp:search:%s:%d", strings.ToUpper(query), limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var wps []domain.Waypoint
			if err := json.Unmarshal(data, &wps); err == nil {
				return wps, nil
			}
		}
	}

	wps, err := s.waypoints.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(wps); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return wps, nil
}

// GetByIdent returns a single waypoint by its ident (case-insensitive).
func (s *WaypointService) GetByIdent(ctx context.Context, ident string) (*domain.Waypoint, error) {
	ident = strings.ToUpper(strings.TrimSpace(ident))
	if ident == "" {
		return nil, fmt.Errorf("waypoint ident must not be empty")
	}

	cacheKey := "wp:ident:" + ident
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var wp domain.Waypoint
			if err := json.Unmarshal(data, &wp); err == nil {
				return &wp, nil
			}
		}
	}

	wp, err := s.waypoints.GetByIdent(ctx, ident)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(wp); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 1800)
		}
	}

	return wp, nil
}

// GetByIdents returns multiple waypoints by ident.
func (s *WaypointService) GetByIdents(ctx context.Context, idents []string) ([]domain.Waypoint, error) {
	if len(idents) == 0 {
		return nil, nil
	}
	upper := make([]string, len(idents))
	for i, id := range idents {
		upper[i] = strings.ToUpper(strings.TrimSpace(id))
	}
	return s.waypoints.GetByIdents(ctx, upper)
}
